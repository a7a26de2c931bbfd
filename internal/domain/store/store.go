package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// document is the on-disk shape: one default program identifier plus a flat
// key/value configuration per program. The whole document is read once at
// open and rewritten in full on every mutation.
type document struct {
	DefaultProject string                            `json:"default_project"`
	Projects       map[string]map[string]interface{} `json:"projects"`
}

// Store persists per-program configuration sets as a single JSON file.
// In-memory state is the source of truth between writes: a failed write
// leaves the mutation applied in memory, a deliberate and documented
// inconsistency window for this system.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads the store from path. A missing file yields an empty store;
// any other read or parse failure is an error.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc: document{
			Projects: make(map[string]map[string]interface{}),
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config store: %w", err)
	}

	if err := sonic.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse config store: %w", err)
	}
	if s.doc.Projects == nil {
		s.doc.Projects = make(map[string]map[string]interface{})
	}
	return s, nil
}

// Get returns a copy of the persisted configuration for a program. Unknown
// programs yield an empty set.
func (s *Store) Get(id string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := make(map[string]interface{}, len(s.doc.Projects[id]))
	for k, v := range s.doc.Projects[id] {
		cfg[k] = v
	}
	return cfg
}

// Update merges partial into the program's persisted configuration and
// rewrites the store file. The in-memory merge happens regardless of write
// outcome.
func (s *Store) Update(id string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.doc.Projects[id]
	if !ok {
		cfg = make(map[string]interface{}, len(partial))
		s.doc.Projects[id] = cfg
	}
	for k, v := range partial {
		cfg[k] = v
	}
	return s.save()
}

// DefaultProgram returns the persisted default program identifier, which may
// be empty.
func (s *Store) DefaultProgram() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.DefaultProject
}

// SetDefaultProgram persists the default program identifier.
func (s *Store) SetDefaultProgram(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.DefaultProject = id
	return s.save()
}

// save rewrites the whole document atomically (tmp file + rename).
// Caller must hold s.mu.
func (s *Store) save() error {
	data, err := sonic.ConfigStd.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config store directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace config store: %w", err)
	}
	return nil
}
