// Package persona loads character records from YAML storage. Records are
// read once per name and cached; the store is read-only after startup.
package persona

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// #region types

// MemorySummary is the condensed history a persona carries into dialogue.
type MemorySummary struct {
	KeyEvents []string `yaml:"key_events"`
	Sentiment string   `yaml:"sentiment"`
}

// Persona is one character record.
type Persona struct {
	Name          string        `yaml:"name"`
	Role          string        `yaml:"role"`
	Traits        []string      `yaml:"traits"`
	MemorySummary MemorySummary `yaml:"memory_summary"`
}

// ErrNotFound reports a persona that has no record in the store.
var ErrNotFound = errors.New("persona not found")

// #endregion types

// #region store

// Store loads personas from a directory of <name>.yaml files.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*Persona
}

// NewStore creates a persona store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]*Persona)}
}

// Load returns the persona with the given name, reading and caching its
// YAML record on first use.
func (s *Store) Load(name string) (*Persona, error) {
	s.mu.RLock()
	if p, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read persona %s: %w", name, err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", name, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("persona %s: name field is required", name)
	}
	if p.MemorySummary.Sentiment == "" {
		p.MemorySummary.Sentiment = "Neutral"
	}

	s.mu.Lock()
	s.cache[name] = &p
	s.mu.Unlock()
	return &p, nil
}

// #endregion store
