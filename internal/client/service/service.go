// Package service orchestrates client mutations: variant selection,
// accumulate-all validation, persistence and the paired audit writes, all
// inside one transactional boundary.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bimadesk/internal/audit"
	"bimadesk/internal/client"
	"bimadesk/internal/client/store"
	"bimadesk/internal/document"
	"bimadesk/internal/platform/metrics"
	id "bimadesk/pkg/domain"
	dErrors "bimadesk/pkg/domain-errors"
	"bimadesk/pkg/platform/sentinel"
	"bimadesk/pkg/requestcontext"
)

var tracer = otel.Tracer("bimadesk/client/service")

// View is the read model returned to collaborators: the flattened detail
// fields plus documents and the variant tag.
type View struct {
	ID         string              `json:"id"`
	ClientType client.Variant      `json:"clientType"`
	Fields     map[string]string   `json:"fields"`
	Documents  []document.Document `json:"documents"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// ViewCache is an optional read-through cache for views. A nil cache
// disables caching entirely.
type ViewCache interface {
	Get(ctx context.Context, clientID id.ClientID) (*View, bool)
	Set(ctx context.Context, view *View)
	Invalidate(ctx context.Context, clientID id.ClientID)
}

// Option tweaks service construction.
type Option func(*Service)

// WithViewCache plugs in the read-through cache.
func WithViewCache(c ViewCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithViewLogging turns on the optional VIEW audit action for reads.
func WithViewLogging() Option {
	return func(s *Service) { s.logViews = true }
}

// WithMetrics plugs in the Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source; tests pin it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service sequences every client operation. All mutations run inside the
// TxRunner boundary so the entity write and its audit entries commit or roll
// back together; an audit failure is never swallowed.
type Service struct {
	clients  store.Store
	docs     document.Store
	recorder *audit.Recorder
	runner   TxRunner
	cache    ViewCache
	metrics  *metrics.Metrics
	logViews bool
	now      func() time.Time
}

func New(clients store.Store, docs document.Store, recorder *audit.Recorder, runner TxRunner, opts ...Option) *Service {
	s := &Service{
		clients:  clients,
		docs:     docs,
		recorder: recorder,
		runner:   runner,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates variant selection and the full field contract, then
// persists the aggregate and one CREATE audit entry per supplied field in a
// single transaction.
func (s *Service) Create(ctx context.Context, in *client.Input) (*View, error) {
	ctx, span := tracer.Start(ctx, "client.Create")
	defer span.End()

	variant, violation := in.SelectVariant()
	if violation != nil {
		s.metrics.IncrementValidationFailures()
		return nil, dErrors.NewValidation([]dErrors.FieldViolation{*violation})
	}
	span.SetAttributes(attribute.String("client.variant", string(variant)))

	c := client.NewClient(id.NewClientID(), in, s.now())
	flat := c.Flatten()
	if violations := client.Validate(variant, flat); len(violations) > 0 {
		s.metrics.IncrementValidationFailures()
		return nil, dErrors.NewValidation(violations)
	}

	actor := requestcontext.Actor(ctx)
	err := s.runner.RunInTx(ctx, c.ID.String(), func(ctx context.Context) error {
		if err := s.clients.Create(ctx, c); err != nil {
			return err
		}
		return s.recorder.RecordCreate(ctx, c.ID, actor, fieldValues(variant, flat), c.CreatedAt)
	})
	if err != nil {
		return nil, mutationErr(err)
	}

	s.metrics.IncrementClientsCreated()
	s.metrics.AddAuditEntriesWritten(countNonEmpty(flat))
	return s.toView(c, nil), nil
}

// Update merges the supplied fields over the stored aggregate, validates the
// merged record, diffs it against the prior state and persists state plus
// UPDATE audit entries only when the diff is non-empty. The load, the diff
// and the write share one transaction so a concurrent writer can never slip
// between them.
func (s *Service) Update(ctx context.Context, clientID id.ClientID, in *client.Input) (*View, error) {
	ctx, span := tracer.Start(ctx, "client.Update", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
	))
	defer span.End()

	actor := requestcontext.Actor(ctx)
	var (
		result  *client.Client
		changed int
	)
	err := s.runner.RunInTx(ctx, clientID.String(), func(ctx context.Context) error {
		existing, err := s.clients.Get(ctx, clientID)
		if err != nil {
			return err
		}
		variant := existing.Variant()
		if in.SwitchesVariant(variant) {
			s.metrics.IncrementValidationFailures()
			return dErrors.NewValidation([]dErrors.FieldViolation{{
				Reason: dErrors.ReasonVariantImmutable,
			}})
		}

		merged := existing.Clone()
		supplied := in.Apply(merged)
		mergedFlat := merged.Flatten()
		if violations := client.ValidatePartial(variant, mergedFlat, supplied); len(violations) > 0 {
			s.metrics.IncrementValidationFailures()
			return dErrors.NewValidation(violations)
		}

		changes := client.Diff(variant, existing.Flatten(), mergedFlat)
		if len(changes) == 0 {
			// Idempotence guard: nothing changed, so neither state nor
			// trail moves and updatedAt stays put.
			result = existing
			return nil
		}

		merged.UpdatedAt = s.now()
		if err := s.clients.Update(ctx, merged); err != nil {
			return err
		}
		if err := s.recorder.RecordUpdate(ctx, clientID, actor, toAuditChanges(changes), merged.UpdatedAt); err != nil {
			return err
		}
		result = merged
		changed = len(changes)
		return nil
	})
	if err != nil {
		return nil, mutationErr(err)
	}

	if changed == 0 {
		s.metrics.IncrementNoopUpdates()
	} else {
		s.metrics.IncrementClientsUpdated()
		s.metrics.AddAuditEntriesWritten(changed)
		s.invalidate(ctx, clientID)
	}
	docs, err := s.docs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, mutationErr(err)
	}
	return s.toView(result, docs), nil
}

// Delete records the final state of the client as DELETE audit entries, then
// removes documents, the detail record and the root record in the same
// transaction. Audit entries are retained: their clientId is a back-reference,
// not an ownership pointer.
func (s *Service) Delete(ctx context.Context, clientID id.ClientID) error {
	ctx, span := tracer.Start(ctx, "client.Delete", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
	))
	defer span.End()

	actor := requestcontext.Actor(ctx)
	var removed int
	err := s.runner.RunInTx(ctx, clientID.String(), func(ctx context.Context) error {
		existing, err := s.clients.Get(ctx, clientID)
		if err != nil {
			return err
		}
		flat := existing.Flatten()
		if err := s.recorder.RecordDelete(ctx, clientID, actor, fieldValues(existing.Variant(), flat), s.now()); err != nil {
			return err
		}
		if err := s.docs.DeleteByClient(ctx, clientID); err != nil {
			return err
		}
		removed = countNonEmpty(flat)
		return s.clients.Delete(ctx, clientID)
	})
	if err != nil {
		return mutationErr(err)
	}

	s.metrics.IncrementClientsDeleted()
	s.metrics.AddAuditEntriesWritten(removed)
	s.invalidate(ctx, clientID)
	return nil
}

// Get is a read-only fetch. With view logging enabled it also records a
// whole-record VIEW marker.
func (s *Service) Get(ctx context.Context, clientID id.ClientID) (*View, error) {
	ctx, span := tracer.Start(ctx, "client.Get", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
	))
	defer span.End()

	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, clientID); ok {
			return view, s.recordView(ctx, clientID)
		}
	}

	c, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return nil, mutationErr(err)
	}
	docs, err := s.docs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, mutationErr(err)
	}
	view := s.toView(c, docs)
	if s.cache != nil {
		s.cache.Set(ctx, view)
	}
	return view, s.recordView(ctx, clientID)
}

// AttachDocument links an uploaded document to an existing client. The
// existence check and the insert share a transaction so the document can
// never outlive its owner.
func (s *Service) AttachDocument(ctx context.Context, clientID id.ClientID, docType, storageRef, fileName string) (*document.Document, error) {
	ctx, span := tracer.Start(ctx, "client.AttachDocument", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
	))
	defer span.End()

	doc := &document.Document{
		ID:         id.NewDocumentID(),
		ClientID:   clientID,
		Type:       docType,
		StorageRef: storageRef,
		FileName:   fileName,
		UploadedAt: s.now(),
	}
	err := s.runner.RunInTx(ctx, clientID.String(), func(ctx context.Context) error {
		if _, err := s.clients.Get(ctx, clientID); err != nil {
			return err
		}
		return s.docs.Attach(ctx, doc)
	})
	if err != nil {
		return nil, mutationErr(err)
	}
	s.invalidate(ctx, clientID)
	return doc, nil
}

// Documents lists the client's attached documents.
func (s *Service) Documents(ctx context.Context, clientID id.ClientID) ([]document.Document, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, mutationErr(err)
	}
	docs, err := s.docs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, mutationErr(err)
	}
	return docs, nil
}

// AuditLog returns one page of the client's trail.
func (s *Service) AuditLog(ctx context.Context, clientID id.ClientID, page, limit int, order audit.Order) ([]audit.Entry, error) {
	return s.recorder.List(ctx, clientID, page, limit, order)
}

// AuditStats aggregates the client's trail.
func (s *Service) AuditStats(ctx context.Context, clientID id.ClientID) (audit.Stats, error) {
	return s.recorder.Stats(ctx, clientID)
}

func (s *Service) recordView(ctx context.Context, clientID id.ClientID) error {
	if !s.logViews {
		return nil
	}
	if err := s.recorder.RecordView(ctx, clientID, requestcontext.Actor(ctx), s.now()); err != nil {
		return mutationErr(err)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, clientID id.ClientID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, clientID)
	}
}

func (s *Service) toView(c *client.Client, docs []document.Document) *View {
	flat := c.Flatten()
	fields := make(map[string]string, len(flat))
	for name, value := range flat {
		if value != "" {
			fields[name] = value
		}
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return &View{
		ID:         c.ID.String(),
		ClientType: c.Variant(),
		Fields:     fields,
		Documents:  docs,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// mutationErr translates infrastructure failures into domain errors. Domain
// errors pass through untouched so accumulated violations survive the
// transaction boundary.
func mutationErr(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "client not found")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "store timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "transaction failed")
	}
}

func fieldValues(v client.Variant, flat client.Flat) []audit.FieldValue {
	names := client.FieldNames(v)
	out := make([]audit.FieldValue, 0, len(names))
	for _, name := range names {
		out = append(out, audit.FieldValue{Name: name, Value: flat[name]})
	}
	return out
}

func toAuditChanges(changes []client.FieldChange) []audit.Change {
	out := make([]audit.Change, len(changes))
	for i, ch := range changes {
		out[i] = audit.Change{Field: ch.Field, Old: ch.Old, New: ch.New}
	}
	return out
}

func countNonEmpty(flat client.Flat) int {
	n := 0
	for _, v := range flat {
		if v != "" {
			n++
		}
	}
	return n
}
