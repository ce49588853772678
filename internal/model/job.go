package model

// FetchJob describes one HTTP request to perform: a single listing page for
// a single source. Jobs are immutable and consumed exactly once.
type FetchJob struct {
	Source string // exchange or site name, used for logging and tagging
	URL    string
	Page   int // 1-based page index; 0 for unpaginated targets
}

// Page is the ephemeral result of a successful fetch. It is handed to the
// extractor and discarded afterwards.
type Page struct {
	Job        FetchJob
	Body       string
	StatusCode int
}
