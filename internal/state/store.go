// Package state persists the set of already-processed identities across
// runs, together with an append-only log of the records themselves.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/model"
)

// persistedState is the on-disk shape of the processed set.
type persistedState struct {
	ProcessedContracts []string `json:"processed_contracts"`
}

// Store tracks which contract addresses have been emitted already. It is
// owned by exactly one goroutine; the watcher loop is its only writer.
//
// Commit appends records to the output log before rewriting the state
// file, so a crash between the two may re-emit a batch on the next run but
// never loses committed history (at-least-once).
type Store struct {
	statePath  string
	outputPath string
	seen       map[string]struct{}
}

// Open loads the persisted state at statePath, starting empty when no
// prior state exists.
func Open(statePath, outputPath string) (*Store, error) {
	s := &Store{
		statePath:  statePath,
		outputPath: outputPath,
		seen:       make(map[string]struct{}),
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("state file %s not found, starting with an empty set", statePath)
			return s, nil
		}
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}

	var ps persistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	for _, id := range ps.ProcessedContracts {
		s.seen[id] = struct{}{}
	}

	logrus.Infof("loaded %d processed contracts from %s", len(s.seen), statePath)
	return s, nil
}

// Contains reports whether the identity has been committed before.
func (s *Store) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of committed identities.
func (s *Store) Len() int { return len(s.seen) }

// Commit appends the records to the output log, adds their identities to
// the set and rewrites the state file. Records whose identity is already in
// the set are skipped; the number of genuinely new records is returned.
func (s *Store) Commit(records []model.ContractRecord) (int, error) {
	fresh := make([]model.ContractRecord, 0, len(records))
	for _, r := range records {
		if s.Contains(r.Identity()) {
			continue
		}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.appendOutput(fresh); err != nil {
		return 0, err
	}

	for _, r := range fresh {
		s.seen[r.Identity()] = struct{}{}
	}
	if err := s.save(); err != nil {
		return len(fresh), err
	}
	return len(fresh), nil
}

// appendOutput writes one JSON object per record, newline-delimited, to the
// growing output log.
func (s *Store) appendOutput(records []model.ContractRecord) error {
	f, err := os.OpenFile(s.outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to append record to output: %w", err)
		}
	}
	return nil
}

// save rewrites the full state file. Identities are sorted so the file is
// stable across runs.
func (s *Store) save() error {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(persistedState{ProcessedContracts: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(s.statePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
