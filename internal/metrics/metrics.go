// Package metrics exposes Prometheus collectors for the finance service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const namespace = "finance"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	alerts        *prometheus.CounterVec
	payments      prometheus.Counter
	settledSplits prometheus.Counter
	reconciles    prometheus.Counter
	notifications *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_alerts_total",
			Help:      "Budget alerts generated by type.",
		}, []string{"type"}),
		payments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_payments_total",
			Help:      "Payments recorded against split shares.",
		}),
		settledSplits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_settled_total",
			Help:      "Splits that reached the settled state.",
		}),
		reconciles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_reconciliations_total",
			Help:      "Explicit account balance reconciliations.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications handed to the publisher by kind and result.",
		}, []string{"kind", "result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// AlertsGenerated counts alerts by type.
func (m *Metrics) AlertsGenerated(alerts []models.Alert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.alerts.WithLabelValues(string(a.Type)).Inc()
	}
}

// PaymentRecorded counts a payment and, when it settled the split, the settlement.
func (m *Metrics) PaymentRecorded(settled bool) {
	if m == nil {
		return
	}
	m.payments.Inc()
	if settled {
		m.settledSplits.Inc()
	}
}

// AccountReconciled counts an explicit reconciliation.
func (m *Metrics) AccountReconciled() {
	if m == nil {
		return
	}
	m.reconciles.Inc()
}

// NotificationPublished counts a publish attempt.
func (m *Metrics) NotificationPublished(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}
