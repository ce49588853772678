// Package watcher runs the unbounded polling loop over a verified-contracts
// listing page: fetch, extract, diff against persisted state, commit,
// sleep, repeat.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/config"
	"scrape-web3/internal/extract"
	"scrape-web3/internal/fetch"
	"scrape-web3/internal/model"
	"scrape-web3/internal/state"
)

// Watcher polls one fixed URL on a single goroutine. The tick interval is
// the only suspension point; Stop closes the loop cleanly between
// iterations so the per-iteration commit is never interrupted.
type Watcher struct {
	cfg     config.ContractsConfig
	fetcher *fetch.Fetcher
	store   *state.Store

	interval time.Duration
	now      func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFetcher swaps the fetcher, letting tests point the watcher at a
// local server with short backoff delays.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(w *Watcher) { w.fetcher = f }
}

// WithInterval overrides the poll interval from the configuration.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// New builds a Watcher over an opened state store.
func New(cfg config.ContractsConfig, store *state.Store, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:      cfg,
		fetcher:  fetch.New(),
		store:    store,
		interval: time.Duration(cfg.PollIntervalMinutes) * time.Minute,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the polling loop. The first poll happens immediately.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	logrus.Infof("contract watcher started, polling %s every %v", w.cfg.URL, w.interval)
}

// Stop shuts the loop down between iterations and waits for it to exit.
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	logrus.Infof("contract watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.pollOnce(ctx)
	for {
		select {
		case <-ticker.C:
			w.pollOnce(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pollOnce performs one fetch/extract/diff/commit iteration. Every failure
// mode degrades to "nothing new this round"; the loop itself never stops
// because of a bad iteration.
func (w *Watcher) pollOnce(ctx context.Context) {
	logrus.Infof("fetching verified contracts from: %s", w.cfg.URL)

	job := model.FetchJob{Source: "contractsVerified", URL: w.cfg.URL}
	page, err := w.fetcher.Fetch(ctx, job)
	if err != nil || page == nil {
		logrus.Warnf("failed to fetch %s, skipping this round", w.cfg.URL)
		return
	}

	contracts := extract.Contracts(page.Body, w.now().UTC())
	if len(contracts) == 0 {
		logrus.Infof("no contracts parsed from page")
		return
	}

	fresh := make([]model.ContractRecord, 0, len(contracts))
	for _, c := range contracts {
		if w.store.Contains(c.Identity()) {
			continue
		}
		fresh = append(fresh, c)
		logrus.Infof("new contract: %s - %s", c.ContractAddress, c.ContractName)
	}
	if len(fresh) == 0 {
		logrus.Infof("no new contracts found")
		return
	}

	committed, err := w.store.Commit(fresh)
	if err != nil {
		logrus.Errorf("failed to commit %d contracts: %v", len(fresh), err)
		return
	}
	logrus.Infof("found %d new contracts", committed)
}
