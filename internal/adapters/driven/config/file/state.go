package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/zraval/portfolio-assistant/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// maxRecentQueries is the trailing window kept for suggestion chips.
const maxRecentQueries = 5

// stateFile is the on-disk TOML shape.
type stateFile struct {
	Seen          bool     `toml:"seen"`
	RecentQueries []string `toml:"recent_queries"`
}

// StateStore is a file-based implementation of driven.StateStore using
// TOML. It keeps the tiny bits of cross-session state the assistant
// uses to tailor its greeting and suggestions. Write failures are
// swallowed; losing this state only makes the next greeting generic.
type StateStore struct {
	mu       sync.Mutex
	filePath string
	state    stateFile
}

// NewStateStore creates a new TOML-based state store.
// If stateDir is empty, defaults to ~/.portfolio-assistant.
func NewStateStore(stateDir string) (*StateStore, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		stateDir = filepath.Join(home, ".portfolio-assistant")
	}
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, err
	}

	s := &StateStore{
		filePath: filepath.Join(stateDir, "state.toml"),
	}
	if data, err := os.ReadFile(s.filePath); err == nil {
		// A corrupt state file starts fresh.
		_ = toml.Unmarshal(data, &s.state)
	}
	return s, nil
}

// Seen reports whether the user has opened a chat session before.
func (s *StateStore) Seen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Seen
}

// MarkSeen records that a chat session has been opened.
func (s *StateStore) MarkSeen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Seen {
		return
	}
	s.state.Seen = true
	s.save()
}

// RecentQueries returns the most recent queries, newest first.
func (s *StateStore) RecentQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.state.RecentQueries))
	copy(out, s.state.RecentQueries)
	return out
}

// AddRecentQuery records a query, deduplicating and keeping only a
// short trailing window.
func (s *StateStore) AddRecentQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queries := []string{query}
	for _, q := range s.state.RecentQueries {
		if q != query {
			queries = append(queries, q)
		}
	}
	if len(queries) > maxRecentQueries {
		queries = queries[:maxRecentQueries]
	}
	s.state.RecentQueries = queries
	s.save()
}

// Path returns the state file path.
func (s *StateStore) Path() string {
	return s.filePath
}

// save writes the state file (caller must hold lock).
func (s *StateStore) save() {
	data, err := toml.Marshal(s.state)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.filePath, data, 0600)
}
