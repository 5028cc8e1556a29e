// Package store persists the client aggregate: one root row plus exactly one
// variant detail row. Implementations must honor a transaction carried in the
// context so the service can commit the aggregate write and its audit entries
// together.
package store

import (
	"context"

	"bimadesk/internal/client"
	id "bimadesk/pkg/domain"
)

// Store is the aggregate persistence contract. Lookups for unknown IDs
// return sentinel.ErrNotFound. Delete removes the root row and its detail
// row; document and audit rows are the service's concern.
type Store interface {
	Create(ctx context.Context, c *client.Client) error
	Get(ctx context.Context, clientID id.ClientID) (*client.Client, error)
	Update(ctx context.Context, c *client.Client) error
	Delete(ctx context.Context, clientID id.ClientID) error
}
