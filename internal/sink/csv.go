package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/model"
)

// csvHeaders is the fixed column order of the wallet CSV output, matching
// the record field names.
var csvHeaders = []string{"exchange_name", "wallet_address", "source_url"}

// CSVSink persists the batch as a CSV file: a header row from the record
// field names followed by one row per record, with standard quoting.
type CSVSink struct {
	path string
}

// NewCSVSink builds a sink writing to the given path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write replaces the output file with the full batch.
func (s *CSVSink) Write(records []model.WalletRecord) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create csv file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{r.ExchangeName, r.WalletAddress, r.SourceURL}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv file: %w", err)
	}

	logrus.Infof("saved %d wallets to %s", len(records), s.path)
	return nil
}
