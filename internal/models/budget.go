package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the length of a budget period.
type PeriodType string

const (
	PeriodMonthly  PeriodType = "monthly"
	PeriodSemester PeriodType = "semester"
	PeriodYearly   PeriodType = "yearly"
)

// Valid reports whether p is a known period type.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodSemester, PeriodYearly:
		return true
	}
	return false
}

// BudgetHealth classifies how much of a budget has been used.
type BudgetHealth string

const (
	HealthSafe     BudgetHealth = "safe"
	HealthWarning  BudgetHealth = "warning"
	HealthDanger   BudgetHealth = "danger"
	HealthExceeded BudgetHealth = "exceeded"
)

// Severity orders health values from safe (0) to exceeded (3).
func (h BudgetHealth) Severity() int {
	switch h {
	case HealthWarning:
		return 1
	case HealthDanger:
		return 2
	case HealthExceeded:
		return 3
	}
	return 0
}

// Budget is a spending limit for one category over a period.
// At most one non-deleted budget exists per (UserID, CategoryID, Period).
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// UserID is the owner of the budget.
	UserID string

	// CategoryID is the category whose expenses count against the limit.
	CategoryID string

	// CategoryName and CategoryColor are resolved from the category on read.
	CategoryName  string
	CategoryColor string

	// Name is an optional label.
	Name string

	// Amount is the spending limit.
	Amount decimal.Decimal

	// Period is the period type used to derive StartDate and EndDate.
	Period PeriodType

	// StartDate and EndDate bound the period, inclusive.
	StartDate time.Time
	EndDate   time.Time

	// AlertThreshold is the percentage (0-100) at which the budget is in danger.
	AlertThreshold float64

	// Rollover carries unused budget into the next period.
	Rollover bool

	// CreatedAt is the Unix timestamp when the budget was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last update.
	UpdatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, zero while active.
	DeletedAt int64
}

// BudgetFilter narrows a budget listing.
type BudgetFilter struct {
	CategoryID string
	Period     PeriodType
	// ActiveAt keeps only budgets whose period contains this instant.
	ActiveAt time.Time
}

// BudgetStatus is the evaluated state of a budget. It is computed on every
// read from the current ledger and never stored.
type BudgetStatus struct {
	BudgetID      string
	CategoryID    string
	CategoryName  string
	CategoryColor string
	Period        PeriodType

	Limit     decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal

	// Percentage is spent/limit*100 rounded to one decimal place.
	Percentage float64

	Status   BudgetHealth
	DaysLeft int

	// ProjectedSpending is the period total at the current daily rate,
	// rounded to cents.
	ProjectedSpending decimal.Decimal
	OnTrack           bool
}

// AlertType identifies what an alert is about.
type AlertType string

const (
	AlertBudgetExceeded   AlertType = "budget_exceeded"
	AlertBudgetWarning    AlertType = "budget_warning"
	AlertBudgetProjection AlertType = "budget_projection"
)

// AlertSeverity ranks alerts for display.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert is an informational notice derived from a BudgetStatus.
type Alert struct {
	Type     AlertType
	BudgetID string
	Category string
	Message  string
	Severity AlertSeverity

	// Amount is the figure the message is about: the overage for exceeded
	// budgets, the percentage used for warnings, the projected overage for
	// projections.
	Amount decimal.Decimal
}

// BudgetRecommendation suggests a monthly limit from recent spending.
type BudgetRecommendation struct {
	CategoryID        string
	Category          string
	CurrentSpending   decimal.Decimal
	RecommendedBudget decimal.Decimal
	Reason            string
	// Confidence is 0-100, reaching 100 with three or more months of data.
	Confidence int
}

// CategoryMonth is the expense total of one category in one calendar month.
type CategoryMonth struct {
	CategoryID string
	Category   string
	// Month is formatted as YYYY-MM.
	Month string
	// Total is the absolute amount spent.
	Total decimal.Decimal
}
