// Package record persists run records as one JSON file per calendar date.
// The record store is the only component that touches the data directory;
// everything upstream and downstream works with in-memory RunRecords.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"twitterai/pkg/models"
)

// Store reads and writes run records under a data directory
type Store struct {
	dataDir string
}

// NewStore creates a record store, creating the data directory if needed
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// Path returns the file path for a given date's record
func (s *Store) Path(date string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("tweets_%s.json", date))
}

// Exists reports whether a record for the given date has been saved
func (s *Store) Exists(date string) bool {
	_, err := os.Stat(s.Path(date))
	return err == nil
}

// Load reads and validates the record for a given date. Validation happens
// here, at the storage boundary, so a corrupt file fails the load instead
// of surfacing later as a half-broken export.
func (s *Store) Load(date string) (*models.RunRecord, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid record date %q: %w", date, err)
	}

	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no record for %s: %w", date, err)
		}
		return nil, fmt.Errorf("failed to read record for %s: %w", date, err)
	}

	var record models.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record for %s: %w", date, err)
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record for %s: %w", date, err)
	}

	return &record, nil
}

// Save validates and writes a record. The write goes through a temp file
// and a rename, so a crash mid-write never leaves a truncated record.
func (s *Store) Save(record *models.RunRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid record: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	target := s.Path(record.Date)
	tmp, err := os.CreateTemp(s.dataDir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace record file: %w", err)
	}

	return nil
}

// Dates lists the dates that have saved records, in lexical (chronological)
// order.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		var date string
		if _, err := fmt.Sscanf(name, "tweets_%10s.json", &date); err != nil {
			continue
		}
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates, nil
}
