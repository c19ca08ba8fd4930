package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const day = 24 * time.Hour

// ClassifyStatus maps a usage percentage to a budget health value.
// The first matching rule wins: exceeded at 100%, danger at the alert
// threshold, warning 20 points below it, safe otherwise.
func ClassifyStatus(percentage decimal.Decimal, alertThreshold float64) models.BudgetHealth {
	threshold := decimal.NewFromFloat(alertThreshold)
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return models.HealthExceeded
	case percentage.GreaterThanOrEqual(threshold):
		return models.HealthDanger
	case percentage.GreaterThanOrEqual(threshold.Sub(decimal.NewFromInt(20))):
		return models.HealthWarning
	default:
		return models.HealthSafe
	}
}

// EvaluateBudget computes the status of budget b given what has been spent in
// its category during the period and the current time.
//
// Spending is projected linearly over the whole period from the days elapsed
// so far. Classification uses the unrounded percentage; the returned
// Percentage is rounded to one decimal place.
func EvaluateBudget(b *models.Budget, spent decimal.Decimal, now time.Time) models.BudgetStatus {
	limit := b.Amount
	remaining := limit.Sub(spent)

	percentage := decimal.Zero
	if limit.IsPositive() {
		percentage = spent.Mul(hundred).Div(limit)
	}

	daysLeft := ceilDays(b.EndDate.Sub(now))
	totalDays := ceilDays(b.EndDate.Sub(b.StartDate))
	daysElapsed := totalDays - daysLeft

	projected := decimal.Zero
	if daysElapsed > 0 {
		projected = spent.Mul(decimal.NewFromInt(int64(totalDays))).Div(decimal.NewFromInt(int64(daysElapsed)))
	}

	return models.BudgetStatus{
		BudgetID:          b.ID,
		CategoryID:        b.CategoryID,
		CategoryName:      b.CategoryName,
		CategoryColor:     b.CategoryColor,
		Period:            b.Period,
		Limit:             limit,
		Spent:             RoundCents(spent),
		Remaining:         RoundCents(remaining),
		Percentage:        percentage.Round(1).InexactFloat64(),
		Status:            ClassifyStatus(percentage, b.AlertThreshold),
		DaysLeft:          daysLeft,
		ProjectedSpending: RoundCents(projected),
		OnTrack:           projected.LessThanOrEqual(limit),
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
