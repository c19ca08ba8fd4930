package api

import "time"

type Metric struct {
	Total  float64 `json:"total"`
	Change int     `json:"change"`
}

type GetOverviewRequest struct{}

// GetOverviewResponse compares the current month with the previous one.
// Change is the month-over-month difference in whole percent.
type GetOverviewResponse struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Income      *Metric   `json:"income"`
	Expenses    *Metric   `json:"expenses"`
	Savings     *Metric   `json:"savings"`
}

// GetSpendingTrendsRequest selects week, month (default) or year.
type GetSpendingTrendsRequest struct {
	Period string `json:"period,omitempty"`
}

type TrendPoint struct {
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
}

type GetSpendingTrendsResponse struct {
	Period string        `json:"period"`
	Points []*TrendPoint `json:"points"`
}

// GetCategoryBreakdownRequest defaults to the current month up to now.
type GetCategoryBreakdownRequest struct {
	Dates DateRange `json:"dates"`
}

type CategorySlice struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Value      float64 `json:"value"`
	Count      int     `json:"count"`
}

type GetCategoryBreakdownResponse struct {
	Categories []*CategorySlice `json:"categories"`
}

// GetTopMerchantsRequest defaults to the current month and five merchants.
type GetTopMerchantsRequest struct {
	Dates DateRange `json:"dates"`
	Limit int       `json:"limit,omitempty"`
}

type MerchantTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type GetTopMerchantsResponse struct {
	Merchants []*MerchantTotal `json:"merchants"`
}

// GetMonthlyReportRequest reports on the month containing Month, or the
// current month when unset.
type GetMonthlyReportRequest struct {
	Month *time.Time `json:"month,omitempty"`
}

type ReportSummary struct {
	OpeningBalance float64 `json:"opening_balance"`
	Income         float64 `json:"income"`
	Expenses       float64 `json:"expenses"`
	NetFlow        float64 `json:"net_flow"`
	ClosingBalance float64 `json:"closing_balance"`
}

type NamedAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type ReportLine struct {
	Date     time.Time `json:"date"`
	Merchant string    `json:"merchant,omitempty"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type,omitempty"`
}

type GetMonthlyReportResponse struct {
	PeriodStart  time.Time      `json:"period_start"`
	PeriodEnd    time.Time      `json:"period_end"`
	Summary      *ReportSummary `json:"summary"`
	ByCategory   []*NamedAmount `json:"by_category"`
	Transactions []*ReportLine  `json:"transactions"`
}

// GetSpendingReportRequest requires both ends of the range.
type GetSpendingReportRequest struct {
	Dates DateRange `json:"dates"`
}

type GetSpendingReportResponse struct {
	PeriodStart      time.Time      `json:"period_start"`
	PeriodEnd        time.Time      `json:"period_end"`
	TotalSpending    float64        `json:"total_spending"`
	TransactionCount int            `json:"transaction_count"`
	TopMerchants     []*NamedAmount `json:"top_merchants"`
	Transactions     []*ReportLine  `json:"transactions"`
}
