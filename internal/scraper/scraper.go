// Package scraper drives the bounded batch run over every configured
// exchange: fan out across sources, fetch each source's listing pages
// strictly one after another, validate and merge the results.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/config"
	"scrape-web3/internal/dedup"
	"scrape-web3/internal/extract"
	"scrape-web3/internal/fetch"
	"scrape-web3/internal/model"
	"scrape-web3/internal/ratelimit"
)

// Scraper orchestrates the end-to-end wallet scrape. It is intentionally
// decoupled from concrete sinks; Run returns the deduplicated batch and
// the caller decides where it goes.
type Scraper struct {
	cfg      *config.Config
	fetchOpt []fetch.Option

	// jobPause is the fixed extra pause inserted between consecutive jobs
	// of the same source.
	jobPause time.Duration
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithFetchOptions forwards options to every per-source Fetcher, letting
// tests shrink the backoff delays.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(s *Scraper) { s.fetchOpt = opts }
}

// WithJobPause overrides the pause between consecutive jobs of one source.
func WithJobPause(d time.Duration) Option {
	return func(s *Scraper) { s.jobPause = d }
}

// New constructs a Scraper from the loaded configuration.
func New(cfg *config.Config, opts ...Option) *Scraper {
	s := &Scraper{
		cfg: cfg,
		fetchOpt: []fetch.Option{
			fetch.WithRetry(cfg.Retry.Attempts, time.Duration(cfg.Retry.InitialDelayMS)*time.Millisecond),
		},
		jobPause: time.Duration(cfg.JobPauseMS) * time.Millisecond,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every exchange on its own goroutine and waits for all of
// them regardless of individual failure (a failed source contributes zero
// records). The merged results come back deduplicated, first-seen-wins.
func (s *Scraper) Run(ctx context.Context) []model.WalletRecord {
	results := make(chan []model.WalletRecord, len(s.cfg.Exchanges))

	var wg sync.WaitGroup
	for _, ex := range s.cfg.Exchanges {
		wg.Add(1)
		go func(ex config.ExchangeConfig) {
			defer wg.Done()
			wallets := s.scrapeExchange(ctx, ex)
			logrus.Infof("found %d wallets for %s", len(wallets), ex.Name)
			if len(wallets) > 0 {
				results <- wallets
			}
		}(ex)
	}

	wg.Wait()
	close(results)

	var all []model.WalletRecord
	for wallets := range results {
		all = append(all, wallets...)
	}
	logrus.Infof("total wallets collected: %d", len(all))

	unique := dedup.ByIdentity(all, model.WalletRecord.Identity)
	logrus.Infof("unique wallets after deduplication: %d", len(unique))
	return unique
}

// scrapeExchange walks every query x page job of one exchange through a
// pipeline private to this goroutine. Jobs never run concurrently with
// each other: each one is awaited through rate-limit wait, fetch and
// extract before the next job's wait begins.
func (s *Scraper) scrapeExchange(ctx context.Context, ex config.ExchangeConfig) []model.WalletRecord {
	limiter := ratelimit.New(time.Duration(s.cfg.RateLimitMS) * time.Millisecond)
	fetcher := fetch.New(s.fetchOpt...)

	var wallets []model.WalletRecord
	for _, query := range ex.Queries {
		for page := 1; page <= ex.Pages; page++ {
			job := model.FetchJob{
				Source: ex.Name,
				URL:    fmt.Sprintf("%s?q=%s&p=%d", ex.AccountsURL, url.QueryEscape(query), page),
				Page:   page,
			}
			logrus.Infof("scraping %s: %s (page %d)", ex.Name, job.URL, page)

			if err := limiter.Wait(ctx); err != nil {
				return wallets
			}
			result, err := fetcher.Fetch(ctx, job)
			if err != nil {
				// Only context cancellation reaches here.
				return wallets
			}
			if result == nil {
				logrus.Warnf("no page for %s query %q (page %d), job abandoned", ex.Name, query, page)
			} else {
				found := extract.Wallets(result.Body, ex.Name, job.URL)
				logrus.Infof("found %d wallets for %s query %q (page %d)", len(found), ex.Name, query, page)
				wallets = append(wallets, found...)
			}

			// Additional fixed pause between jobs of the same source.
			if err := s.sleep(ctx, s.jobPause); err != nil {
				return wallets
			}
		}
	}
	return wallets
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
