package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/model"
)

// JSONSink writes the whole batch as a single pretty-printed JSON array.
// The file is written atomically (temp file + rename) so a crash mid-write
// never leaves a truncated array behind.
type JSONSink struct {
	path string
}

// NewJSONSink builds a sink writing to the given path.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

// Write serializes the records and replaces the output file.
func (s *JSONSink) Write(records []model.WalletRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".wallets-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	logrus.Infof("saved %d wallets to %s", len(records), s.path)
	return nil
}
