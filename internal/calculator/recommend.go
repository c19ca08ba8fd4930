package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// recommendationBuffer is added on top of average monthly spending.
var recommendationBuffer = decimal.RequireFromString("1.10")

// CategorySpending is a category's expense total per month over a lookback
// window. Months without spending are omitted.
type CategorySpending struct {
	CategoryID    string
	Category      string
	MonthlyTotals []decimal.Decimal
}

// RecommendBudgets suggests a monthly limit per category: the average of the
// months with spending plus a 10% buffer, rounded up to a whole amount.
// Confidence reaches 100 with three or more months of data. Results are
// sorted by current spending, highest first.
func RecommendBudgets(spending []CategorySpending) []models.BudgetRecommendation {
	recs := make([]models.BudgetRecommendation, 0, len(spending))
	for _, cs := range spending {
		months := len(cs.MonthlyTotals)
		if months == 0 {
			continue
		}

		total := decimal.Zero
		for _, m := range cs.MonthlyTotals {
			total = total.Add(m.Abs())
		}
		average := total.Div(decimal.NewFromInt(int64(months)))
		if !average.IsPositive() {
			continue
		}

		recs = append(recs, models.BudgetRecommendation{
			CategoryID:        cs.CategoryID,
			Category:          cs.Category,
			CurrentSpending:   RoundCents(average),
			RecommendedBudget: RoundCents(average.Mul(recommendationBuffer)).Ceil(),
			Reason: fmt.Sprintf("Based on average spending of $%s over %d month(s)",
				average.StringFixed(centPlaces), months),
			Confidence: min(months, 3) * 100 / 3,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CurrentSpending.GreaterThan(recs[j].CurrentSpending)
	})
	return recs
}
