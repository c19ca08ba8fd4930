package calculator

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const (
	unknownMerchant    = "Unknown"
	uncategorized      = "Uncategorized"
	uncategorizedColor = "#cbd5e1"

	// DefaultTopMerchants is how many merchants a ranking returns by default.
	DefaultTopMerchants = 5
)

// MonthBounds returns the first and last second of the UTC month containing ref.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}

// PercentChange is the change from prev to curr in whole percent, rounded
// half away from zero. A zero prev yields 100 when curr is positive and 0
// otherwise. The change is relative to the magnitude of prev, so a negative
// balance that shrinks reads as an improvement.
func PercentChange(curr, prev decimal.Decimal) int {
	if prev.IsZero() {
		if curr.IsPositive() {
			return 100
		}
		return 0
	}
	return int(curr.Sub(prev).Mul(hundred).Div(prev.Abs()).Round(0).IntPart())
}

// PeriodTotals sums income and expenses over a window. Expenses are positive
// and transfers are ignored.
type PeriodTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
}

// TotalsBetween sums the transactions dated within [start, end].
func TotalsBetween(txns []models.Transaction, start, end time.Time) PeriodTotals {
	var t PeriodTotals
	for _, tx := range txns {
		if tx.TransactionDate.Before(start) || tx.TransactionDate.After(end) {
			continue
		}
		switch tx.Kind {
		case models.KindIncome:
			t.Income = t.Income.Add(tx.Amount.Abs())
		case models.KindExpense:
			t.Expenses = t.Expenses.Add(tx.Amount.Abs())
		}
	}
	t.Savings = t.Income.Sub(t.Expenses)
	return t
}

// Metric is a monthly total with its change against the previous month.
type Metric struct {
	Total  decimal.Decimal
	Change int
}

// Overview compares the month containing now with the month before it.
type Overview struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Income      Metric
	Expenses    Metric
	Savings     Metric
}

// AnalyticsOverview builds the month-over-month overview from transactions
// covering at least the previous and current month.
func AnalyticsOverview(txns []models.Transaction, now time.Time) Overview {
	start, end := MonthBounds(now)
	prevStart, prevEnd := MonthBounds(start.Add(-time.Second))

	curr := TotalsBetween(txns, start, end)
	prev := TotalsBetween(txns, prevStart, prevEnd)

	return Overview{
		PeriodStart: start,
		PeriodEnd:   end,
		Income:      Metric{Total: curr.Income, Change: PercentChange(curr.Income, prev.Income)},
		Expenses:    Metric{Total: curr.Expenses, Change: PercentChange(curr.Expenses, prev.Expenses)},
		Savings:     Metric{Total: curr.Savings, Change: PercentChange(curr.Savings, prev.Savings)},
	}
}

// TrendPeriod selects the window and bucket size of a spending trend.
type TrendPeriod string

const (
	TrendWeek  TrendPeriod = "week"  // 7 daily buckets
	TrendMonth TrendPeriod = "month" // 30 daily buckets
	TrendYear  TrendPeriod = "year"  // 12 monthly buckets
)

// Valid reports whether p is a known trend period.
func (p TrendPeriod) Valid() bool {
	switch p {
	case TrendWeek, TrendMonth, TrendYear:
		return true
	}
	return false
}

// TrendBucket is the income and spending of one day or month.
type TrendBucket struct {
	Label    string
	Start    time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// TrendWindow returns the start of the first bucket of period ending at now.
func TrendWindow(period TrendPeriod, now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case TrendWeek:
		return today.AddDate(0, 0, -6)
	case TrendYear:
		return time.Date(now.Year(), now.Month()-11, 1, 0, 0, 0, 0, time.UTC)
	default:
		return today.AddDate(0, 0, -29)
	}
}

// SpendingTrends buckets income and expenses over the window ending at now.
// Every bucket is present, oldest first, even when nothing happened in it.
// Unknown periods are treated as month.
func SpendingTrends(txns []models.Transaction, period TrendPeriod, now time.Time) []TrendBucket {
	if !period.Valid() {
		period = TrendMonth
	}
	start := TrendWindow(period, now)

	var buckets []TrendBucket
	next := func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	layout := "2 Jan"
	count := 30
	switch period {
	case TrendWeek:
		layout, count = "Mon", 7
	case TrendYear:
		layout, count = "Jan", 12
		next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	}

	bounds := make([]time.Time, 0, count+1)
	for t, i := start, 0; i <= count; t, i = next(t), i+1 {
		bounds = append(bounds, t)
	}
	for i := 0; i < count; i++ {
		buckets = append(buckets, TrendBucket{Label: bounds[i].Format(layout), Start: bounds[i]})
	}

	for _, tx := range txns {
		date := tx.TransactionDate.UTC()
		if date.Before(bounds[0]) || !date.Before(bounds[count]) {
			continue
		}
		i := sort.Search(count, func(i int) bool { return bounds[i+1].After(date) })
		switch tx.Kind {
		case models.KindIncome:
			buckets[i].Income = buckets[i].Income.Add(tx.Amount.Abs())
		case models.KindExpense:
			buckets[i].Expenses = buckets[i].Expenses.Add(tx.Amount.Abs())
		}
	}
	return buckets
}

// CategorySlice is one category's share of spending.
type CategorySlice struct {
	CategoryID string
	Name       string
	Color      string
	Amount     decimal.Decimal
	Count      int
}

// CategoryBreakdown totals expenses per category, largest first. Categories
// missing from categories are reported as uncategorized.
func CategoryBreakdown(txns []models.Transaction, categories map[string]*models.Category) []CategorySlice {
	byID := make(map[string]*CategorySlice)
	var order []string
	for _, tx := range txns {
		if tx.Kind != models.KindExpense {
			continue
		}
		slice, ok := byID[tx.CategoryID]
		if !ok {
			slice = &CategorySlice{CategoryID: tx.CategoryID, Name: uncategorized, Color: uncategorizedColor}
			if c, found := categories[tx.CategoryID]; found {
				slice.Name = c.Name
				if c.Color != "" {
					slice.Color = c.Color
				}
			}
			byID[tx.CategoryID] = slice
			order = append(order, tx.CategoryID)
		}
		slice.Amount = slice.Amount.Add(tx.Amount.Abs())
		slice.Count++
	}

	out := make([]CategorySlice, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MerchantTotal is what was spent at one merchant.
type MerchantTotal struct {
	Name   string
	Amount decimal.Decimal
	Count  int
}

// TopMerchants ranks merchants by expense total, then by name. A limit of
// zero or less returns every merchant.
func TopMerchants(txns []models.Transaction, limit int) []MerchantTotal {
	var expenses []models.Transaction
	for _, tx := range txns {
		if tx.Kind == models.KindExpense {
			expenses = append(expenses, tx)
		}
	}
	return rankMerchants(expenses, limit)
}

func rankMerchants(expenses []models.Transaction, limit int) []MerchantTotal {
	byName := make(map[string]*MerchantTotal)
	for _, tx := range expenses {
		name := strings.TrimSpace(tx.Merchant)
		if name == "" {
			name = unknownMerchant
		}
		m, ok := byName[name]
		if !ok {
			m = &MerchantTotal{Name: name}
			byName[name] = m
		}
		m.Amount = m.Amount.Add(tx.Amount.Abs())
		m.Count++
	}

	out := make([]MerchantTotal, 0, len(byName))
	for _, m := range byName {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ReportLine is one transaction as it appears in a report.
type ReportLine struct {
	Date     time.Time
	Merchant string
	Category string
	Amount   decimal.Decimal
	Kind     models.TransactionKind
}

// NamedAmount is a labelled total.
type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthlyReport is a month's cashflow statement across all accounts.
type MonthlyReport struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	NetFlow        decimal.Decimal
	ClosingBalance decimal.Decimal
	ByCategory     []NamedAmount
	Lines          []ReportLine
}

// BuildMonthlyReport reports on the month containing ref.
//
// Income is the sum of positive amounts and expenses the sum of negative ones,
// so transfers count on whichever side their sign puts them. The closing
// balance is currentBalance with every transaction dated after the month
// backed out; the opening balance is the closing balance less the month's net
// flow. txns must include everything dated from the start of the month on.
func BuildMonthlyReport(txns []models.Transaction, currentBalance decimal.Decimal, ref time.Time, categoryNames map[string]string) MonthlyReport {
	start, end := MonthBounds(ref)
	r := MonthlyReport{PeriodStart: start, PeriodEnd: end}

	later := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range txns {
		if tx.TransactionDate.After(end) {
			later = later.Add(tx.Amount)
			continue
		}
		if tx.TransactionDate.Before(start) {
			continue
		}

		line := reportLine(tx, categoryNames)
		if tx.Amount.IsNegative() {
			r.Expenses = r.Expenses.Add(tx.Amount.Abs())
			if _, ok := byCategory[line.Category]; !ok {
				order = append(order, line.Category)
			}
			byCategory[line.Category] = byCategory[line.Category].Add(tx.Amount.Abs())
		} else {
			r.Income = r.Income.Add(tx.Amount)
		}
		r.Lines = append(r.Lines, line)
	}

	r.NetFlow = r.Income.Sub(r.Expenses)
	r.ClosingBalance = currentBalance.Sub(later)
	r.OpeningBalance = r.ClosingBalance.Sub(r.NetFlow)

	for _, name := range order {
		r.ByCategory = append(r.ByCategory, NamedAmount{Name: name, Amount: byCategory[name]})
	}
	sort.SliceStable(r.ByCategory, func(i, j int) bool {
		return r.ByCategory[i].Amount.GreaterThan(r.ByCategory[j].Amount)
	})
	sortLines(r.Lines)
	return r
}

// SpendingReport summarizes expenses over a date range.
type SpendingReport struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Total        decimal.Decimal
	Count        int
	TopMerchants []MerchantTotal
	Lines        []ReportLine
}

// BuildSpendingReport totals the transactions with a negative amount dated
// within [start, end]. Line amounts are positive.
func BuildSpendingReport(txns []models.Transaction, start, end time.Time, categoryNames map[string]string) SpendingReport {
	r := SpendingReport{PeriodStart: start, PeriodEnd: end}

	var expenses []models.Transaction
	for _, tx := range txns {
		if !tx.Amount.IsNegative() || tx.TransactionDate.Before(start) || tx.TransactionDate.After(end) {
			continue
		}
		expenses = append(expenses, tx)
		r.Total = r.Total.Add(tx.Amount.Abs())

		line := reportLine(tx, categoryNames)
		line.Amount = line.Amount.Abs()
		r.Lines = append(r.Lines, line)
	}
	r.Count = len(expenses)
	r.TopMerchants = rankMerchants(expenses, DefaultTopMerchants)
	sortLines(r.Lines)
	return r
}

func reportLine(tx models.Transaction, categoryNames map[string]string) ReportLine {
	category := categoryNames[tx.CategoryID]
	if category == "" {
		category = uncategorized
	}
	kind := models.KindIncome
	if tx.Amount.IsNegative() {
		kind = models.KindExpense
	}
	return ReportLine{
		Date:     tx.TransactionDate,
		Merchant: tx.Merchant,
		Category: category,
		Amount:   tx.Amount,
		Kind:     kind,
	}
}

// sortLines orders report lines newest first.
func sortLines(lines []ReportLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date)
	})
}
