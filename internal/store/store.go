// Package store holds the shared selected-country state and persists it.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current state file format version.
const StateVersion = 1

// State is the persisted form of the store.
type State struct {
	Version     int       `json:"version"`
	CountryCode string    `json:"country_code"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the country-code sink. SetCountryCode only touches memory;
// Save writes the state file when something changed.
type Store struct {
	mu    sync.RWMutex
	path  string
	state State
	dirty bool
	now   func() time.Time
}

// New creates a store backed by path. An empty path keeps the store in memory.
func New(path string) *Store {
	return &Store{
		path:  path,
		state: State{Version: StateVersion},
		now:   time.Now,
	}
}

// Load reads the state file. A missing file leaves the store empty.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	s.state = st
	s.dirty = false
	return nil
}

// Save writes the state file if the code changed since the last Load or Save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty || s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// SetCountryCode records code as the selected country.
func (s *Store) SetCountryCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Version = StateVersion
	s.state.CountryCode = code
	s.state.UpdatedAt = s.now().UTC()
	s.dirty = true
}

// CountryCode returns the selected code, or "" if none.
func (s *Store) CountryCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CountryCode
}

// UpdatedAt returns when the code was last set.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UpdatedAt
}
