package tool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	mutations      *prometheus.CounterVec
	logins         *prometheus.CounterVec
	persistErrors  prometheus.Counter
	readFallbacks  prometheus.Counter
	uploadedBytes  prometheus.Counter
	clientsEntries *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_mutations_total",
			Help: "Admin mutations by operation and result",
		}, []string{"operation", "result"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		persistErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_persist_errors_total",
			Help: "Failed document writes",
		}),
		readFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_read_fallbacks_total",
			Help: "Document reads that fell back to the built-in default",
		}),
		uploadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_uploaded_bytes_total",
			Help: "Total bytes of stored images",
		}),
		clientsEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portal_client_entries",
			Help: "Entries per client list after the last change",
		}, []string{"list"}),
	}
}

func (m *Metrics) ObserveMutation(operation string, ok bool) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, result(ok)).Inc()
}

func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistErrors.Inc()
}

func (m *Metrics) ReadFellBack() {
	if m == nil {
		return
	}
	m.readFallbacks.Inc()
}

func (m *Metrics) AddUploadedBytes(n int) {
	if m == nil {
		return
	}
	m.uploadedBytes.Add(float64(n))
}

func (m *Metrics) SetClientEntries(list string, n int) {
	if m == nil {
		return
	}
	m.clientsEntries.WithLabelValues(list).Set(float64(n))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
