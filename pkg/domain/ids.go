// Package domain holds typed identifiers shared across features. Distinct ID
// types make cross-entity assignment a compile error.
package domain

import (
	"github.com/google/uuid"

	dErrors "bimadesk/pkg/domain-errors"
)

// ClientID identifies a client aggregate.
type ClientID uuid.UUID

// DocumentID identifies an uploaded document reference.
type DocumentID uuid.UUID

// AuditEntryID identifies a single audit trail row.
type AuditEntryID uuid.UUID

// NewClientID mints a fresh client identifier.
func NewClientID() ClientID { return ClientID(uuid.New()) }

// NewDocumentID mints a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewAuditEntryID mints a fresh audit entry identifier.
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

func (id ClientID) String() string     { return uuid.UUID(id).String() }
func (id ClientID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) String() string   { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string { return uuid.UUID(id).String() }

// Text marshaling renders IDs as canonical UUID strings in JSON and logs.

func (id ClientID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ClientID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ClientID(u)
	return nil
}

func (id DocumentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *DocumentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = DocumentID(u)
	return nil
}

func (id AuditEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AuditEntryID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = AuditEntryID(u)
	return nil
}

// ParseClientID validates raw input at trust boundaries; IDs must be valid,
// non-nil UUIDs.
func ParseClientID(raw string) (ClientID, error) {
	id, err := parseUUID(raw)
	if err != nil {
		return ClientID{}, err
	}
	return ClientID(id), nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return id, nil
}
