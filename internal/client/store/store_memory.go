package store

import (
	"context"
	"sync"

	"bimadesk/internal/client"
	id "bimadesk/pkg/domain"
	"bimadesk/pkg/platform/sentinel"
)

// InMemory keeps aggregates for tests and single-process development. Clones
// on the way in and out so callers never share mutable state with the store.
type InMemory struct {
	mu      sync.RWMutex
	clients map[id.ClientID]*client.Client
}

func NewInMemory() *InMemory {
	return &InMemory{clients: make(map[id.ClientID]*client.Client)}
}

func (s *InMemory) Create(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ID]; ok {
		return sentinel.ErrConflict
	}
	s.clients[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) Get(_ context.Context, clientID id.ClientID) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemory) Update(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.clients[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.clients, clientID)
	return nil
}
