package audit

import (
	"context"

	id "bimadesk/pkg/domain"
)

// Order controls trail listing direction. The default query is newest first;
// chronological order is available on request.
type Order string

const (
	OrderNewestFirst   Order = "desc"
	OrderChronological Order = "asc"
)

// Store is the append-only persistence contract for trail entries. Append
// must honor a transaction carried in the context so entries commit or roll
// back together with the entity mutation they describe.
type Store interface {
	Append(ctx context.Context, entries []Entry) error
	ListByClient(ctx context.Context, clientID id.ClientID, page, limit int, order Order) ([]Entry, error)
	CountByClient(ctx context.Context, clientID id.ClientID) (int, error)
	AllByClient(ctx context.Context, clientID id.ClientID) ([]Entry, error)
}
