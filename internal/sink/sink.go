package sink

import "scrape-web3/internal/model"

// Sink defines the behaviour expected from any output back-end used by the
// wallet scraper (JSON file, CSV file, webhooks, etc.).
//
// Write receives the full deduplicated batch at the end of a run. The JSON
// and CSV sinks are invoked independently of each other, so one failing
// never blocks the other.
//
// Returning an error allows a retry decorator configured at a higher level
// to kick in.
type Sink interface {
	// Write persists the provided records and returns an error if the
	// operation fails for any reason.
	Write(records []model.WalletRecord) error
}
