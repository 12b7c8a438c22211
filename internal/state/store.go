// Package state persists per-device software state records: which effect
// this software last applied to each device. One JSON document per serial,
// read and replaced whole; an absent file means "no active effect".
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nightsky30/polychromatic/internal/models"
)

// Store handles software state storage under a base directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// path returns the record file for a serial.
func (s *Store) path(serial string) string {
	return filepath.Join(s.dir, serial+".json")
}

// Get reads the record for a serial. A missing file yields a fresh empty
// record, not an error.
func (s *Store) Get(serial string) (*models.SoftwareState, error) {
	data, err := os.ReadFile(s.path(serial))
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewSoftwareState(serial), nil
		}
		return nil, fmt.Errorf("failed to read state for %s: %w", serial, err)
	}

	var record models.SoftwareState
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse state for %s: %w", serial, err)
	}
	if record.Serial == "" {
		record.Serial = serial
	}
	return &record, nil
}

// Put replaces the record for the record's serial.
func (s *Store) Put(record *models.SoftwareState) error {
	if record.Serial == "" {
		return fmt.Errorf("state record has no serial")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state for %s: %w", record.Serial, err)
	}
	if err := os.WriteFile(s.path(record.Serial), data, 0o644); err != nil {
		return fmt.Errorf("failed to write state for %s: %w", record.Serial, err)
	}
	return nil
}

// List enumerates every record in the store. Files that fail to parse are
// skipped rather than failing the whole enumeration.
func (s *Store) List() ([]*models.SoftwareState, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var records []*models.SoftwareState
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		serial := strings.TrimSuffix(entry.Name(), ".json")
		record, err := s.Get(serial)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Remove deletes the record for a serial. Removing an absent record is a
// no-op.
func (s *Store) Remove(serial string) error {
	err := os.Remove(s.path(serial))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state for %s: %w", serial, err)
	}
	return nil
}
