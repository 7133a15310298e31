// Package idset persists sets of activity identifiers as newline-delimited
// text files. A set is loaded once, checked in memory, and rewritten in full
// after every insertion.
package idset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Set is an insertion-ordered set of ids bound to a file.
// It is safe for concurrent use.
type Set struct {
	path  string
	mu    sync.RWMutex
	ids   map[string]struct{}
	order []string
}

// New returns a set bound to path holding ids. Nothing is written.
func New(path string, ids ...string) *Set {
	s := &Set{path: path, ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.insert(id)
	}
	return s
}

// Load reads the set stored at path. A missing file yields an empty set.
// Blank lines and surrounding whitespace are ignored.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(path), nil
		}
		return nil, fmt.Errorf("read id set %s: %w", path, err)
	}

	s := New(path)
	for _, line := range strings.Split(string(data), "\n") {
		s.insert(strings.TrimSpace(line))
	}
	return s, nil
}

func (s *Set) insert(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Path returns the file the set is persisted to.
func (s *Set) Path() string {
	return s.path
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// IDs returns the ids in insertion order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Clone returns an independent copy bound to the same file.
func (s *Set) Clone() *Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return New(s.path, s.order...)
}

// Add inserts id and rewrites the whole file. The id stays in memory even if
// the write fails; the error is returned so the caller can abort.
func (s *Set) Add(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.insert(id) {
		return nil
	}
	return s.writeLocked()
}

// Save rewrites the file with the current contents.
func (s *Set) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeLocked()
}

// writeLocked replaces the file through a temp file and a rename so a crash
// mid-write never leaves a truncated set behind.
func (s *Set) writeLocked() error {
	if s.path == "" {
		return fmt.Errorf("id set has no path")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create id set dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp id set: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strings.Join(s.order, "\n")); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write id set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close id set: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace id set %s: %w", s.path, err)
	}
	return nil
}
