// Package fetch issues the HTTP GETs of the pipeline: one request per
// logical fetch job, with bounded exponential backoff on transient failure.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"scrape-web3/internal/model"

	"github.com/sirupsen/logrus"
)

// userAgent is a fixed desktop-browser identification string; explorer
// sites answer plain library clients with interstitial pages.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// defaultTimeout is the absolute per-request budget, covering connect and
// read. A hung request is aborted and enters the retry path as a transport
// error.
const defaultTimeout = 30 * time.Second

// Fetcher performs rate-limit-agnostic HTTP fetches with retries. Callers
// own the pacing (see ratelimit.Limiter); the Fetcher only decides whether
// and when to retry a failed attempt.
type Fetcher struct {
	client       *http.Client
	retries      int           // retry budget per job, on top of the first attempt
	initialDelay time.Duration // first backoff delay; doubles on every retry

	sleep func(context.Context, time.Duration) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRetry overrides the retry budget and the initial backoff delay.
func WithRetry(retries int, initialDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.retries = retries
		f.initialDelay = initialDelay
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithSleep replaces the backoff sleep, letting tests observe the delay
// sequence without waiting it out.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// New builds a Fetcher with the default 30s timeout, a retry budget of 3
// and a 1s initial backoff.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: defaultTimeout},
		retries:      3,
		initialDelay: time.Second,
		sleep:        sleepCtx,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs the job's GET and classifies the outcome:
//
//   - 2xx: the page is returned.
//   - 429 or transport error: back off (1s, 2s, 4s — deterministic, no
//     jitter) and retry until the budget runs out, then give up with a nil
//     page. Exhaustion is not an error; the run continues with other jobs.
//   - any other status: the job is abandoned immediately with a nil page.
//
// The only error returned is context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, job model.FetchJob) (*model.Page, error) {
	attemptsLeft := f.retries
	delay := f.initialDelay

	for {
		page, retryable := f.attempt(ctx, job)
		if page != nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable {
			return nil, nil
		}
		if attemptsLeft == 0 {
			logrus.Warnf("all retries failed for %s: %s", job.Source, job.URL)
			return nil, nil
		}

		logrus.Warnf("transient failure for %s, retrying in %v (%d retries left)", job.URL, delay, attemptsLeft)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		attemptsLeft--
	}
}

// attempt runs a single GET. It returns the page on success, or nil and
// whether the failure is worth retrying.
func (f *Fetcher) attempt(ctx context.Context, job model.FetchJob) (*model.Page, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		logrus.Warnf("failed to build request for %s: %v", job.URL, err)
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logrus.Warnf("request failed for %s: %v", job.URL, err)
		return nil, true
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			logrus.Warnf("failed to read body of %s: %v", job.URL, err)
			return nil, true
		}
		return &model.Page{Job: job, Body: string(body), StatusCode: resp.StatusCode}, false

	case resp.StatusCode == http.StatusTooManyRequests:
		logrus.Warnf("rate limited for %s: %d", job.URL, resp.StatusCode)
		return nil, true

	default:
		// Terminal for this job: abandoned, not retried.
		logrus.Warnf("failed to fetch %s: %d", job.URL, resp.StatusCode)
		return nil, false
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
