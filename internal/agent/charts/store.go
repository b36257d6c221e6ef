// Package charts renders PNG chart artifacts and holds them in a
// process-wide side table so the model never observes image payloads.
package charts

import (
	"sync"

	"github.com/google/uuid"
)

// Artifact is one rendered chart held for at-most-once delivery.
type Artifact struct {
	ChartType string
	ImageB64  string
}

// Store maps chart id to artifact. Entries are removed on Take so a chart
// is delivered to the client exactly once.
type Store struct {
	mu   sync.Mutex
	byID map[string]Artifact
}

func NewStore() *Store {
	return &Store{byID: make(map[string]Artifact)}
}

// Put stores the artifact under a fresh opaque id and returns the id.
func (s *Store) Put(a Artifact) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.byID[id] = a
	s.mu.Unlock()
	return id
}

// Take removes and returns the artifact for id. The second return is false
// when the id is unknown or the artifact was already consumed.
func (s *Store) Take(id string) (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if ok {
		delete(s.byID, id)
	}
	return a, ok
}

// Len reports the number of pending artifacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
