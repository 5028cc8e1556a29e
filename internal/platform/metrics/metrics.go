package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and turns every increment into a no-op, which keeps tests quiet.
type Metrics struct {
	clientsCreated      prometheus.Counter
	clientsUpdated      prometheus.Counter
	clientsDeleted      prometheus.Counter
	noopUpdates         prometheus.Counter
	validationFailures  prometheus.Counter
	auditEntriesWritten prometheus.Counter
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg. Tests pass a fresh registry so
// counters start at zero and re-registration cannot collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		clientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_clients_created_total",
			Help: "Total number of clients created",
		}),
		clientsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_clients_updated_total",
			Help: "Total number of client updates that changed at least one field",
		}),
		clientsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_clients_deleted_total",
			Help: "Total number of clients deleted",
		}),
		noopUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_noop_updates_total",
			Help: "Total number of update requests that changed nothing",
		}),
		validationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_validation_failures_total",
			Help: "Total number of create/update payloads rejected by validation",
		}),
		auditEntriesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "bimadesk_audit_entries_written_total",
			Help: "Total number of audit trail entries written",
		}),
	}
}

func (m *Metrics) IncrementClientsCreated() {
	if m != nil {
		m.clientsCreated.Inc()
	}
}

func (m *Metrics) IncrementClientsUpdated() {
	if m != nil {
		m.clientsUpdated.Inc()
	}
}

func (m *Metrics) IncrementClientsDeleted() {
	if m != nil {
		m.clientsDeleted.Inc()
	}
}

func (m *Metrics) IncrementNoopUpdates() {
	if m != nil {
		m.noopUpdates.Inc()
	}
}

func (m *Metrics) IncrementValidationFailures() {
	if m != nil {
		m.validationFailures.Inc()
	}
}

// AddAuditEntriesWritten records how many trail entries one mutation emitted.
func (m *Metrics) AddAuditEntriesWritten(n int) {
	if m != nil {
		m.auditEntriesWritten.Add(float64(n))
	}
}
