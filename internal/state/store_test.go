package state

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scrape-web3/internal/model"
)

func testRecord(addr, name string) model.ContractRecord {
	return model.ContractRecord{
		ContractAddress: addr,
		ContractName:    name,
		CompilerVersion: "v0.8.19",
		ContractCreator: "0x1111111111111111111111111111111111111111",
		SourceCode:      model.SourceCodePlaceholder,
		DiscoveredAt:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStore(t *testing.T) {
	t.Run("missing state file starts empty", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(filepath.Join(dir, "state.json"), filepath.Join(dir, "out.json"))
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		if s.Len() != 0 {
			t.Errorf("Len() = %d, want 0", s.Len())
		}
	})

	t.Run("round trip across restarts", func(t *testing.T) {
		dir := t.TempDir()
		statePath := filepath.Join(dir, "state.json")
		outPath := filepath.Join(dir, "out.json")

		s, err := Open(statePath, outPath)
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		n, err := s.Commit([]model.ContractRecord{testRecord("0xA", "one"), testRecord("0xB", "two")})
		if err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		if n != 2 {
			t.Errorf("Commit() = %d, want 2", n)
		}

		reopened, err := Open(statePath, outPath)
		if err != nil {
			t.Fatalf("reopen error: %v", err)
		}
		for _, tc := range []struct {
			id   string
			want bool
		}{
			{"0xA", true},
			{"0xB", true},
			{"0xC", false},
		} {
			if got := reopened.Contains(tc.id); got != tc.want {
				t.Errorf("Contains(%q) = %v, want %v", tc.id, got, tc.want)
			}
		}
	})

	t.Run("already committed identities are excluded", func(t *testing.T) {
		dir := t.TempDir()
		s, err := Open(filepath.Join(dir, "state.json"), filepath.Join(dir, "out.json"))
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		if _, err := s.Commit([]model.ContractRecord{testRecord("0xA", "one")}); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}

		n, err := s.Commit([]model.ContractRecord{testRecord("0xA", "again"), testRecord("0xC", "new")})
		if err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		if n != 1 {
			t.Errorf("Commit() = %d new records, want 1", n)
		}
	})

	t.Run("output log is append-only newline-delimited JSON", func(t *testing.T) {
		dir := t.TempDir()
		outPath := filepath.Join(dir, "out.json")
		s, err := Open(filepath.Join(dir, "state.json"), outPath)
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}

		if _, err := s.Commit([]model.ContractRecord{testRecord("0xA", "one")}); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		if _, err := s.Commit([]model.ContractRecord{testRecord("0xB", "two")}); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}

		f, err := os.Open(outPath)
		if err != nil {
			t.Fatalf("open output: %v", err)
		}
		defer f.Close()

		var lines []model.ContractRecord
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var r model.ContractRecord
			if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
				t.Fatalf("line %d is not valid JSON: %v", len(lines)+1, err)
			}
			lines = append(lines, r)
		}
		if len(lines) != 2 {
			t.Fatalf("output lines = %d, want 2", len(lines))
		}
		if lines[0].ContractAddress != "0xA" || lines[1].ContractAddress != "0xB" {
			t.Errorf("output order = %q, %q", lines[0].ContractAddress, lines[1].ContractAddress)
		}
	})

	t.Run("empty commit touches nothing", func(t *testing.T) {
		dir := t.TempDir()
		outPath := filepath.Join(dir, "out.json")
		s, err := Open(filepath.Join(dir, "state.json"), outPath)
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		if n, err := s.Commit(nil); err != nil || n != 0 {
			t.Fatalf("Commit(nil) = %d, %v", n, err)
		}
		if _, err := os.Stat(outPath); !os.IsNotExist(err) {
			t.Error("output file created by an empty commit")
		}
	})
}
