// Package audit is the field-granular audit trail: one immutable entry per
// changed field, written in the same transaction as the entity mutation it
// describes. Entries are never updated after creation.
package audit

import (
	"time"

	id "bimadesk/pkg/domain"
)

// Action classifies what a trail entry records.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionView   Action = "VIEW"
)

// Entry is a single audit trail row.
//
// FieldName is empty for whole-record markers (the optional VIEW action);
// CREATE, UPDATE and DELETE are recorded per field. OldValue is empty for
// CREATE, NewValue is empty for DELETE. ClientID is a back-reference only:
// entries survive the deletion of the client they describe.
type Entry struct {
	ID        id.AuditEntryID `json:"id"`
	ClientID  id.ClientID     `json:"clientId"`
	Action    Action          `json:"action"`
	FieldName string          `json:"fieldName,omitempty"`
	OldValue  string          `json:"oldValue,omitempty"`
	NewValue  string          `json:"newValue,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	ChangedAt time.Time       `json:"changedAt"`
}

// Stats is the read-only aggregation over a client's trail.
type Stats struct {
	TotalChanges    int            `json:"totalChanges"`
	RecentChanges   int            `json:"recentChanges"`
	ChangesByAction map[Action]int `json:"changesByAction"`
	ChangesByField  map[string]int `json:"changesByField"`
	LastModified    *time.Time     `json:"lastModified,omitempty"`
}

// recentWindow bounds the RecentChanges aggregation.
const recentWindow = 30 * 24 * time.Hour
