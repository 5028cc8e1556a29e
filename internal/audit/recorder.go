package audit

import (
	"context"
	"time"

	id "bimadesk/pkg/domain"
)

// FieldValue is one serialized field of a flattened record, in registry order.
type FieldValue struct {
	Name  string
	Value string
}

// Change is one field-level delta from the diff engine.
type Change struct {
	Field string
	Old   string
	New   string
}

// Recorder turns entity mutations into trail entries. It writes through the
// store contract only, so the service can run it inside the same transaction
// as the mutation: a failed audit write rolls the mutation back, and vice
// versa. It is never allowed to swallow an append failure.
type Recorder struct {
	store Store
	now   func() time.Time
}

// RecorderOption customises a Recorder.
type RecorderOption func(*Recorder)

// WithClock pins the recorder's notion of now. Stats uses it for the recent
// changes window boundary.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordCreate writes one CREATE entry per non-empty field of the newly
// persisted record.
func (r *Recorder) RecordCreate(ctx context.Context, clientID id.ClientID, actor string, fields []FieldValue, at time.Time) error {
	var entries []Entry
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		entries = append(entries, Entry{
			ID:        id.NewAuditEntryID(),
			ClientID:  clientID,
			Action:    ActionCreate,
			FieldName: f.Name,
			NewValue:  f.Value,
			Actor:     actor,
			ChangedAt: at,
		})
	}
	return r.append(ctx, entries)
}

// RecordUpdate writes one UPDATE entry per diff entry. Callers must not
// invoke it with an empty diff; the service skips the audit write entirely
// for no-op updates.
func (r *Recorder) RecordUpdate(ctx context.Context, clientID id.ClientID, actor string, changes []Change, at time.Time) error {
	entries := make([]Entry, 0, len(changes))
	for _, ch := range changes {
		entries = append(entries, Entry{
			ID:        id.NewAuditEntryID(),
			ClientID:  clientID,
			Action:    ActionUpdate,
			FieldName: ch.Field,
			OldValue:  ch.Old,
			NewValue:  ch.New,
			Actor:     actor,
			ChangedAt: at,
		})
	}
	return r.append(ctx, entries)
}

// RecordDelete writes one DELETE entry per non-empty field of the record
// being removed, preserving the final state of the client in the trail.
func (r *Recorder) RecordDelete(ctx context.Context, clientID id.ClientID, actor string, fields []FieldValue, at time.Time) error {
	var entries []Entry
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		entries = append(entries, Entry{
			ID:        id.NewAuditEntryID(),
			ClientID:  clientID,
			Action:    ActionDelete,
			FieldName: f.Name,
			OldValue:  f.Value,
			Actor:     actor,
			ChangedAt: at,
		})
	}
	return r.append(ctx, entries)
}

// RecordView writes a single whole-record VIEW marker. Read paths stay
// correct without it; it exists for deployments that want read auditing.
func (r *Recorder) RecordView(ctx context.Context, clientID id.ClientID, actor string, at time.Time) error {
	return r.append(ctx, []Entry{{
		ID:        id.NewAuditEntryID(),
		ClientID:  clientID,
		Action:    ActionView,
		Actor:     actor,
		ChangedAt: at,
	}})
}

func (r *Recorder) append(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.store.Append(ctx, entries)
}

// List returns one page of a client's trail.
func (r *Recorder) List(ctx context.Context, clientID id.ClientID, page, limit int, order Order) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return r.store.ListByClient(ctx, clientID, page, limit, order)
}

// Stats aggregates a client's stored entries. Read-only, no side effects.
func (r *Recorder) Stats(ctx context.Context, clientID id.ClientID) (Stats, error) {
	entries, err := r.store.AllByClient(ctx, clientID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		ChangesByAction: make(map[Action]int),
		ChangesByField:  make(map[string]int),
	}
	cutoff := r.now().Add(-recentWindow)
	for _, e := range entries {
		stats.TotalChanges++
		stats.ChangesByAction[e.Action]++
		if e.FieldName != "" {
			stats.ChangesByField[e.FieldName]++
		}
		if e.ChangedAt.After(cutoff) {
			stats.RecentChanges++
		}
		if stats.LastModified == nil || e.ChangedAt.After(*stats.LastModified) {
			t := e.ChangedAt
			stats.LastModified = &t
		}
	}
	return stats, nil
}
