package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// GenerateAlerts derives alerts from evaluated budget statuses, in input order.
// A budget can produce more than one alert: a danger budget that is also
// projected to overspend yields both a warning and a projection alert.
func GenerateAlerts(statuses []models.BudgetStatus) []models.Alert {
	var alerts []models.Alert
	for _, s := range statuses {
		switch s.Status {
		case models.HealthExceeded:
			overage := s.Remaining.Abs()
			alerts = append(alerts, models.Alert{
				Type:     models.AlertBudgetExceeded,
				BudgetID: s.BudgetID,
				Category: s.CategoryName,
				Message:  fmt.Sprintf("You've exceeded your %s budget by $%s", s.CategoryName, overage.StringFixed(centPlaces)),
				Severity: models.SeverityHigh,
				Amount:   overage,
			})
		case models.HealthDanger:
			alerts = append(alerts, models.Alert{
				Type:     models.AlertBudgetWarning,
				BudgetID: s.BudgetID,
				Category: s.CategoryName,
				Message: fmt.Sprintf("You've used %.1f%% of your %s budget with %d days left",
					s.Percentage, s.CategoryName, s.DaysLeft),
				Severity: models.SeverityMedium,
				Amount:   decimal.NewFromFloat(s.Percentage),
			})
		}

		if !s.OnTrack && s.Status != models.HealthExceeded {
			overage := RoundCents(s.ProjectedSpending.Sub(s.Limit))
			alerts = append(alerts, models.Alert{
				Type:     models.AlertBudgetProjection,
				BudgetID: s.BudgetID,
				Category: s.CategoryName,
				Message: fmt.Sprintf("At your current pace you'll overspend your %s budget by $%s",
					s.CategoryName, overage.StringFixed(centPlaces)),
				Severity: models.SeverityLow,
				Amount:   overage,
			})
		}
	}
	return alerts
}
