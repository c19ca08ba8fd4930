package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveRPC("/finance.v1.BudgetService/GetBudgetStatuses", "ok", 15*time.Millisecond)
	m.AlertsGenerated([]models.Alert{
		{Type: models.AlertBudgetWarning},
		{Type: models.AlertBudgetProjection},
		{Type: models.AlertBudgetWarning},
	})
	m.PaymentRecorded(false)
	m.PaymentRecorded(true)
	m.AccountReconciled()
	m.NotificationPublished("budget_alert", nil)
	m.NotificationPublished("budget_alert", errors.New("broker down"))

	body := scrape(t, m)

	assert.Contains(t, body, `finance_rpc_requests_total{code="ok",procedure="/finance.v1.BudgetService/GetBudgetStatuses"} 1`)
	assert.Contains(t, body, `finance_budget_alerts_total{type="budget_warning"} 2`)
	assert.Contains(t, body, `finance_budget_alerts_total{type="budget_projection"} 1`)
	assert.Contains(t, body, "finance_split_payments_total 2")
	assert.Contains(t, body, "finance_splits_settled_total 1")
	assert.Contains(t, body, "finance_balance_reconciliations_total 1")
	assert.Contains(t, body, `finance_notifications_total{kind="budget_alert",result="error"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRPC("x", "ok", time.Second)
		m.AlertsGenerated([]models.Alert{{Type: models.AlertBudgetExceeded}})
		m.PaymentRecorded(true)
		m.AccountReconciled()
		m.NotificationPublished("k", nil)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
