// Package langgate rejects task text written in a language other than the
// one configured for its project.
package langgate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/fsutil"
	"github.com/tasklog/tasklog/pkg/logging"
)

// Store maps project scopes to expected language codes in a JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the code configured for project.
func (s *Store) Get(project string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.load()[project]
	return code, ok
}

// Set records code for project.
func (s *Store) Set(project, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[project] = code
	return s.save(m)
}

// Unset removes the entry for project.
func (s *Store) Unset(project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	delete(m, project)
	return s.save(m)
}

// Projects returns every configured project, sorted.
func (s *Store) Projects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// load reads the map. A missing or unparsable file reads as empty.
func (s *Store) load() map[string]string {
	m := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil {
		logging.Warn("ignoring unreadable language config", map[string]any{"path": s.path, "error": err.Error()})
		return make(map[string]string)
	}
	return m
}

func (s *Store) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errclass.ErrLogIO.WithMessagef("create config dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := fsutil.AtomicWrite(s.path, data, 0644); err != nil {
		return errclass.ErrLogIO.WithMessagef("write language config: %v", err)
	}
	return nil
}
