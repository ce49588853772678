package api

import (
	"time"

	"scrape-web3/internal/config"
)

// JobRequest mirrors the structure of config.Config but arrives as a JSON
// request body so a scrape can be launched without a config file on disk.
type JobRequest struct {
	Exchanges   []config.ExchangeConfig `json:"exchanges"`
	Retry       config.RetryConfig      `json:"retry"`
	Output      config.OutputConfig     `json:"output"`
	RateLimitMS int                     `json:"rate_limit_ms"`
	JobPauseMS  int                     `json:"job_pause_ms"`
}

// JobResponse is returned after a successful job creation.
type JobResponse struct {
	JobID string `json:"job_id"`
}

// JobStatus represents the runtime state of a launched job.
type JobStatus struct {
	JobID      string     `json:"job_id"`
	Status     string     `json:"status"` // queued | running | finished | error | cancelled
	Records    int        `json:"records,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
