package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory slices.
// Intended for development and testing — no database required.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]document // collection -> documents in insertion order
	now  func() time.Time
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]document),
		now:  time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, collection string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	doc := document{
		ID:        uuid.New().String(),
		Payload:   raw,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.docs[collection] = append(s.docs[collection], doc)
	return doc.ID, nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range s.docs[collection] {
		if doc.ID != id {
			continue
		}
		doc.Payload = raw
		doc.UpdatedAt = s.now()
		s.docs[collection][i] = doc
		return nil
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

func (s *MemoryStore) Get(_ context.Context, collection, id string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs[collection] {
		if doc.ID != id {
			continue
		}
		rendered, err := doc.render()
		if err != nil {
			return err
		}
		return json.Unmarshal(rendered, dest)
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

func (s *MemoryStore) Query(_ context.Context, collection string, filter Filter, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []document
	for _, doc := range s.docs[collection] {
		ok, err := doc.matches(filter)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	rendered := make([]json.RawMessage, 0, len(matched))
	for _, doc := range matched {
		raw, err := doc.render()
		if err != nil {
			return err
		}
		rendered = append(rendered, raw)
	}
	return decodeInto(rendered, dest)
}
