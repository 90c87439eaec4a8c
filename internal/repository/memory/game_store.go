// Package memory is the map-backed GameStore: the default for tests and for
// running the service without external storage. Documents round-trip through
// JSON on the way in and out so the in-memory backend exercises the same
// serialization path as the durable ones.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/courtclock/game-session-service/internal/model"
	"github.com/courtclock/game-session-service/internal/repository"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewGameStore returns the concrete type: it satisfies both GameStore and
// Pinger and callers wire whichever they need.
func NewGameStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, id string) (model.Game, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	var g model.Game
	if err := json.Unmarshal(doc, &g); err != nil {
		return model.Game{}, err
	}
	return g, nil
}

func (s *Store) Put(_ context.Context, g model.Game) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[g.ID] = doc
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *Store) List(_ context.Context) ([]model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GameSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		var sum model.GameSummary
		if err := json.Unmarshal(doc, &sum); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Ping always succeeds; the map is as ready as it gets.
func (s *Store) Ping(context.Context) error { return nil }

var (
	_ repository.GameStore = (*Store)(nil)
	_ repository.Pinger    = (*Store)(nil)
)
