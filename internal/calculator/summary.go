package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// CategoryTotal is the net amount booked in one category.
type CategoryTotal struct {
	CategoryID string
	Category   string
	Amount     decimal.Decimal
	Count      int
}

// CashflowSummary totals a set of transactions.
type CashflowSummary struct {
	Income     decimal.Decimal
	Expenses   decimal.Decimal // positive
	Net        decimal.Decimal
	Count      int
	ByCategory []CategoryTotal // sorted by absolute amount, largest first
}

// SummarizeCashflow totals income and expenses. Transfers count towards the
// category breakdown but not towards income or expenses.
func SummarizeCashflow(txns []models.Transaction, categoryNames map[string]string) CashflowSummary {
	income, expenses := decimal.Zero, decimal.Zero
	byCategory := make(map[string]*CategoryTotal)

	for _, tx := range txns {
		switch tx.Kind {
		case models.KindIncome:
			income = income.Add(tx.Amount)
		case models.KindExpense:
			expenses = expenses.Sub(tx.Amount)
		}

		ct, ok := byCategory[tx.CategoryID]
		if !ok {
			ct = &CategoryTotal{CategoryID: tx.CategoryID, Category: categoryNames[tx.CategoryID]}
			byCategory[tx.CategoryID] = ct
		}
		ct.Amount = ct.Amount.Add(tx.Amount)
		ct.Count++
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Amount.Abs().Cmp(totals[j].Amount.Abs()); c != 0 {
			return c > 0
		}
		return totals[i].CategoryID < totals[j].CategoryID
	})

	return CashflowSummary{
		Income:     income,
		Expenses:   expenses,
		Net:        income.Sub(expenses),
		Count:      len(txns),
		ByCategory: totals,
	}
}
