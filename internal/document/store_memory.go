package document

import (
	"context"
	"sync"

	id "bimadesk/pkg/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.ClientID][]Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.ClientID][]Document)}
}

func (s *InMemoryStore) Attach(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ClientID] = append(s.docs[doc.ClientID], *doc)
	return nil
}

func (s *InMemoryStore) ListByClient(_ context.Context, clientID id.ClientID) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Document{}, s.docs[clientID]...), nil
}

func (s *InMemoryStore) DeleteByClient(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, clientID)
	return nil
}
