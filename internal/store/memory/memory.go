// Package memory implements the record store in process memory. It is the
// default backend for local development and the fixture for tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"endurowallet/internal/core"
	"endurowallet/internal/store"
)

type partitionKey struct {
	userID string
	kind   core.Kind
}

// Store keeps every partition in a mutex-guarded map.
type Store struct {
	mu         sync.Mutex
	partitions map[partitionKey][]store.Document

	// newID is swappable so tests can assign predictable ids.
	newID func() string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		partitions: make(map[partitionKey][]store.Document),
		newID:      uuid.NewString,
	}
}

// NewWithIDs returns a store that assigns ids from the given function.
func NewWithIDs(newID func() string) *Store {
	s := New()
	s.newID = newID
	return s
}

// List returns a copy of the user's partition. An unknown partition is empty.
func (s *Store) List(_ context.Context, userID string, kind core.Kind) ([]store.Document, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", store.ErrStoreUnavailable, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.partitions[partitionKey{userID: userID, kind: kind}]
	out := make([]store.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// Append assigns a uuid, mirrors it into the body, and stores the document.
func (s *Store) Append(_ context.Context, userID string, kind core.Kind, body json.RawMessage) (store.Document, error) {
	if !kind.IsValid() {
		return store.Document{}, fmt.Errorf("%w: unknown kind %q", store.ErrWriteRejected, kind)
	}
	id := s.newID()
	mirrored, err := store.MirrorID(body, kind, id)
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: %v", store.ErrWriteRejected, err)
	}
	doc := store.Document{ID: id, Body: mirrored}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := partitionKey{userID: userID, kind: kind}
	s.partitions[key] = append(s.partitions[key], doc)
	return doc, nil
}
