package sink

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"scrape-web3/internal/model"
)

var testBatch = []model.WalletRecord{
	{ExchangeName: "Binance", WalletAddress: "0xBE0eB53F46cd790Cd13851d5EFf43D12404d33E8", SourceURL: "https://etherscan.io/accounts?q=binance"},
	{ExchangeName: "OKX", WalletAddress: "0x6cC5F688a315f3dC28A7781717a9A798a59fDA7b", SourceURL: "https://etherscan.io/accounts?q=okx"},
}

func TestJSONSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")

	if err := NewJSONSink(path).Write(testBatch); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var got []model.WalletRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if !reflect.DeepEqual(got, testBatch) {
		t.Errorf("round-tripped records = %+v, want %+v", got, testBatch)
	}

	// Overwriting must fully replace, not append.
	if err := NewJSONSink(path).Write(testBatch[:1]); err != nil {
		t.Fatalf("second Write() error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("rewritten output invalid: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("rewritten output has %d records, want 1", len(got))
	}
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.csv")

	if err := NewCSVSink(path).Write(testBatch); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], csvHeaders) {
		t.Errorf("header = %v, want %v", rows[0], csvHeaders)
	}
	if rows[1][1] != testBatch[0].WalletAddress {
		t.Errorf("row 1 address = %q, want %q", rows[1][1], testBatch[0].WalletAddress)
	}
}

// flakySink fails a fixed number of times before succeeding.
type flakySink struct {
	failures int
	calls    int
}

func (s *flakySink) Write([]model.WalletRecord) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("disk full")
	}
	return nil
}

func TestRetrySink(t *testing.T) {
	t.Run("recovers from transient failures", func(t *testing.T) {
		inner := &flakySink{failures: 2}
		s := NewRetrySink(inner, 3, 1)
		if err := s.Write(testBatch); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if inner.calls != 3 {
			t.Errorf("calls = %d, want 3", inner.calls)
		}
	})

	t.Run("propagates the last error", func(t *testing.T) {
		inner := &flakySink{failures: 10}
		s := NewRetrySink(inner, 2, 1)
		if err := s.Write(testBatch); err == nil {
			t.Fatal("Write() = nil, want error after exhausted retries")
		}
		if inner.calls != 2 {
			t.Errorf("calls = %d, want 2", inner.calls)
		}
	})
}
