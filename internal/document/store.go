package document

import (
	"context"

	id "bimadesk/pkg/domain"
)

// Store is the persistence contract for document references. DeleteByClient
// must honor a transaction carried in the context so document rows go away
// in the same transaction that removes their owning client.
type Store interface {
	Attach(ctx context.Context, doc *Document) error
	ListByClient(ctx context.Context, clientID id.ClientID) ([]Document, error)
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}
