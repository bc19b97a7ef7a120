// Package roster manages the monitored-account list: the local JSON file
// read at run start, the merge against a freshly fetched account list, and
// the optimistic-concurrency client for the remote roster editor.
package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"twitterai/pkg/models"
)

// Store reads and writes the local roster file
type Store struct {
	path string
}

// NewStore creates a store for the given roster file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the roster file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the roster. Unknown JSON fields are ignored; missing
// display_name and category fall back to their defaults. An empty roster
// is an error because a run over zero accounts produces nothing useful.
func (s *Store) Load() ([]models.AccountSpec, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var accounts []models.AccountSpec
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("roster file %s contains no accounts", s.path)
	}

	for i := range accounts {
		if accounts[i].Username == "" {
			return nil, fmt.Errorf("roster entry %d has no username", i)
		}
		accounts[i].ApplyDefaults()
	}
	return accounts, nil
}

// Save writes the roster back to disk
func (s *Store) Save(accounts []models.AccountSpec) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}
	return nil
}
