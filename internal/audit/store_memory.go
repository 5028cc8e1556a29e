package audit

import (
	"context"
	"sort"
	"sync"

	id "bimadesk/pkg/domain"
)

// InMemoryStore keeps trail entries per client for tests and single-process
// development. Append-only, like the real table.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.ClientID][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.ClientID][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ClientID] = append(s.entries[e.ClientID], e)
	}
	return nil
}

func (s *InMemoryStore) ListByClient(_ context.Context, clientID id.ClientID, page, limit int, order Order) ([]Entry, error) {
	s.mu.RLock()
	all := append([]Entry{}, s.entries[clientID]...)
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if order == OrderChronological {
			return all[i].ChangedAt.Before(all[j].ChangedAt)
		}
		return all[i].ChangedAt.After(all[j].ChangedAt)
	})
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (s *InMemoryStore) CountByClient(_ context.Context, clientID id.ClientID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[clientID]), nil
}

func (s *InMemoryStore) AllByClient(_ context.Context, clientID id.ClientID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[clientID]...), nil
}
