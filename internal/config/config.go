package config

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

// ExchangeConfig describes one exchange whose wallet addresses are searched
// for on the explorer's accounts listing.
type ExchangeConfig struct {
	Name string `yaml:"name" json:"name"`
	// AccountsURL is the explorer accounts listing endpoint; the scraper
	// appends ?q=<query>&p=<page> to it.
	AccountsURL string   `yaml:"accounts_url" json:"accounts_url"`
	Queries     []string `yaml:"queries" json:"queries"`
	// Pages is how many result pages to walk per query.
	Pages int `yaml:"pages" json:"pages"`
}

// ContractsConfig describes the verified-contracts page watched by the
// polling binary.
type ContractsConfig struct {
	URL                 string `yaml:"url"`
	PollIntervalMinutes int    `yaml:"poll_interval_minutes"`
	StateFile           string `yaml:"state_file"`
	OutputFile          string `yaml:"output_file"`
}

type RetryConfig struct {
	Attempts       int `yaml:"attempts" json:"attempts"`
	InitialDelayMS int `yaml:"initial_delay_ms" json:"initial_delay_ms"`
}

type OutputConfig struct {
	JSONFile string `yaml:"json_file" json:"json_file"`
	CSVFile  string `yaml:"csv_file" json:"csv_file"`
}

type Config struct {
	Exchanges []ExchangeConfig `yaml:"exchanges" json:"exchanges"`
	Contracts ContractsConfig  `yaml:"contracts" json:"-"`
	Retry     RetryConfig      `yaml:"retry" json:"retry"`
	Output    OutputConfig     `yaml:"output" json:"output"`
	// RateLimitMS is the minimum spacing between requests within one source.
	RateLimitMS int `yaml:"rate_limit_ms" json:"rate_limit_ms"`
	// JobPauseMS is the additional fixed pause between consecutive jobs of
	// the same source, on top of the rate limit.
	JobPauseMS int `yaml:"job_pause_ms" json:"job_pause_ms"`
}

// Load reads and unmarshals the configuration file located at the given path.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults validates whatever sections are present and fills in the
// defaults the rest of the system relies on. It is called by Load and by the
// HTTP API when a configuration arrives as a request body instead of a file.
func (cfg *Config) ApplyDefaults() error {
	for i, ex := range cfg.Exchanges {
		if ex.Name == "" {
			return fmt.Errorf("exchange at index %d is missing name", i)
		}
		if ex.AccountsURL == "" {
			return fmt.Errorf("exchange '%s' is missing accounts_url", ex.Name)
		}
		if len(ex.Queries) == 0 {
			return fmt.Errorf("exchange '%s' has no queries", ex.Name)
		}
		if ex.Pages <= 0 {
			cfg.Exchanges[i].Pages = 3
		}
	}

	if cfg.Contracts.URL != "" {
		if cfg.Contracts.PollIntervalMinutes <= 0 {
			cfg.Contracts.PollIntervalMinutes = 5
		}
		if cfg.Contracts.StateFile == "" {
			cfg.Contracts.StateFile = "scraper_state.json"
		}
		if cfg.Contracts.OutputFile == "" {
			cfg.Contracts.OutputFile = "verified_contracts.json"
		}
	}

	// Default retry values if not set.
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = 3
	}
	if cfg.Retry.InitialDelayMS == 0 {
		cfg.Retry.InitialDelayMS = 1000
	}

	if cfg.RateLimitMS <= 0 {
		cfg.RateLimitMS = 1000
	}
	if cfg.JobPauseMS <= 0 {
		cfg.JobPauseMS = 2000
	}

	if cfg.Output.JSONFile == "" {
		cfg.Output.JSONFile = "cex_wallets.json"
	}
	if cfg.Output.CSVFile == "" {
		cfg.Output.CSVFile = "cex_wallets.csv"
	}

	return nil
}
