package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		percentage float64
		threshold  float64
		want       models.BudgetHealth
	}{
		{0, 80, models.HealthSafe},
		{59.99, 80, models.HealthSafe},
		{60, 80, models.HealthWarning},
		{79.99, 80, models.HealthWarning},
		{80, 80, models.HealthDanger},
		{99.99, 80, models.HealthDanger},
		{100, 80, models.HealthExceeded},
		{250, 80, models.HealthExceeded},
		{100, 100, models.HealthExceeded},
		{90, 100, models.HealthWarning},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStatus(decimal.NewFromFloat(tt.percentage), tt.threshold),
			"ClassifyStatus(%v, %v)", tt.percentage, tt.threshold)
	}
}

func TestClassifyStatus_Monotonic(t *testing.T) {
	for _, threshold := range []float64{0, 10, 50, 80, 95, 100, 120} {
		prev := -1
		for p := 0.0; p <= 150; p += 0.25 {
			sev := ClassifyStatus(decimal.NewFromFloat(p), threshold).Severity()
			require.GreaterOrEqual(t, sev, prev, "threshold %v, percentage %v", threshold, p)
			prev = sev
		}
	}
}

func octoberBudget() *models.Budget {
	return &models.Budget{
		ID:             "b1",
		CategoryID:     "food",
		CategoryName:   "Food",
		Amount:         dec("100"),
		Period:         models.PeriodMonthly,
		StartDate:      time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, time.October, 31, 12, 0, 0, 0, time.UTC),
		AlertThreshold: 80,
	}
}

func TestEvaluateBudget(t *testing.T) {
	b := octoberBudget()
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	status := EvaluateBudget(b, dec("30"), now)

	assert.Equal(t, "b1", status.BudgetID)
	assertMoney(t, "100", status.Limit)
	assertMoney(t, "30", status.Spent)
	assertMoney(t, "70", status.Remaining)
	assert.InDelta(t, 30.0, status.Percentage, 0.001)
	assert.Equal(t, models.HealthSafe, status.Status)
	// 13.5 days to the end of the period round up to 14; 30 days in total.
	assert.Equal(t, 14, status.DaysLeft)
	// 30 spent over 16 elapsed days, projected over 30.
	assertMoney(t, "56.25", status.ProjectedSpending)
	assert.True(t, status.OnTrack)
}

func TestEvaluateBudget_NoElapsedDays(t *testing.T) {
	b := octoberBudget()

	status := EvaluateBudget(b, dec("50"), b.StartDate)

	assertMoney(t, "0", status.ProjectedSpending)
	assert.True(t, status.OnTrack)
	assert.Equal(t, 30, status.DaysLeft)
}

func TestEvaluateBudget_PercentageRounding(t *testing.T) {
	b := octoberBudget()
	b.Amount = dec("3")
	now := b.StartDate.Add(10 * day)

	status := EvaluateBudget(b, dec("1"), now)

	assert.Equal(t, 33.3, status.Percentage)
}

func TestEvaluateBudget_ClassifiesOnUnroundedPercentage(t *testing.T) {
	b := octoberBudget()
	now := b.StartDate.Add(29 * day)

	// 79.96% displays as 80.0 but is still below the threshold.
	status := EvaluateBudget(b, dec("79.96"), now)

	assert.Equal(t, 80.0, status.Percentage)
	assert.Equal(t, models.HealthWarning, status.Status)
}

func TestEvaluateBudget_ZeroLimit(t *testing.T) {
	b := octoberBudget()
	b.Amount = decimal.Zero

	status := EvaluateBudget(b, decimal.Zero, b.StartDate.Add(day))

	assert.Equal(t, 0.0, status.Percentage)
	assert.Equal(t, models.HealthSafe, status.Status)
}

func TestBudgetLifecycle(t *testing.T) {
	b := octoberBudget()
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	steps := []struct {
		expense    string
		wantStatus models.BudgetHealth
		wantPct    float64
		wantAlerts []models.AlertType
	}{
		{"30", models.HealthSafe, 30, nil},
		{"40", models.HealthWarning, 70, []models.AlertType{models.AlertBudgetProjection}},
		{"15", models.HealthDanger, 85, []models.AlertType{models.AlertBudgetWarning, models.AlertBudgetProjection}},
		{"20", models.HealthExceeded, 105, []models.AlertType{models.AlertBudgetExceeded}},
	}

	spent := decimal.Zero
	for _, step := range steps {
		spent = spent.Add(dec(step.expense))
		status := EvaluateBudget(b, spent, now)

		assert.Equal(t, step.wantStatus, status.Status, "spent %v", spent)
		assert.InDelta(t, step.wantPct, status.Percentage, 0.001, "spent %v", spent)

		var types []models.AlertType
		for _, a := range GenerateAlerts([]models.BudgetStatus{status}) {
			types = append(types, a.Type)
		}
		assert.Equal(t, step.wantAlerts, types, "spent %v", spent)
	}
}

func TestEvaluateBudget_CentExpensesReachLimitExactly(t *testing.T) {
	b := octoberBudget()
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	spent := decimal.Zero
	for _, expense := range []string{"0.02", "64.07", "35.91"} {
		spent = spent.Add(dec(expense))
	}

	status := EvaluateBudget(b, spent, now)

	assert.Equal(t, models.HealthExceeded, status.Status)
	assert.Equal(t, 100.0, status.Percentage)
	assertMoney(t, "0", status.Remaining)

	alerts := GenerateAlerts([]models.BudgetStatus{status})
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertBudgetExceeded, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "$0.00")
}
