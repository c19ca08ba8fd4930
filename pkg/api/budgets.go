package api

import "time"

type Budget struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	Name           string    `json:"name,omitempty"`
	Amount         float64   `json:"amount"`
	Period         string    `json:"period"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	AlertThreshold float64   `json:"alert_threshold"`
	Rollover       bool      `json:"rollover"`
	CreatedAt      int64     `json:"created_at"`
	UpdatedAt      int64     `json:"updated_at"`
}

// CreateBudgetRequest creates a budget. Without explicit dates the period is
// derived from the current date; without a threshold the configured default applies.
type CreateBudgetRequest struct {
	CategoryID     string     `json:"category_id"`
	Name           string     `json:"name,omitempty"`
	Amount         float64    `json:"amount"`
	Period         string     `json:"period"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	AlertThreshold *float64   `json:"alert_threshold,omitempty"`
	Rollover       bool       `json:"rollover"`
}

type CreateBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type GetBudgetRequest struct {
	BudgetID string `json:"budget_id"`
}

type GetBudgetResponse struct {
	Budget *Budget       `json:"budget"`
	Status *BudgetStatus `json:"status"`
}

type ListBudgetsRequest struct {
	CategoryID string `json:"category_id,omitempty"`
	Period     string `json:"period,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
}

type ListBudgetsResponse struct {
	Budgets []*Budget `json:"budgets"`
}

// UpdateBudgetRequest changes only the fields that are set.
type UpdateBudgetRequest struct {
	BudgetID       string     `json:"budget_id"`
	CategoryID     *string    `json:"category_id,omitempty"`
	Name           *string    `json:"name,omitempty"`
	Amount         *float64   `json:"amount,omitempty"`
	Period         *string    `json:"period,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	AlertThreshold *float64   `json:"alert_threshold,omitempty"`
	Rollover       *bool      `json:"rollover,omitempty"`
}

type UpdateBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type DeleteBudgetRequest struct {
	BudgetID string `json:"budget_id"`
}

type DeleteBudgetResponse struct{}

type BudgetStatus struct {
	BudgetID          string  `json:"budget_id"`
	CategoryID        string  `json:"category_id"`
	CategoryName      string  `json:"category_name"`
	Period            string  `json:"period"`
	Limit             float64 `json:"limit"`
	Spent             float64 `json:"spent"`
	Remaining         float64 `json:"remaining"`
	Percentage        float64 `json:"percentage"`
	Status            string  `json:"status"`
	DaysLeft          int     `json:"days_left"`
	ProjectedSpending float64 `json:"projected_spending"`
	OnTrack           bool    `json:"on_track"`
}

type GetBudgetStatusesRequest struct{}

type GetBudgetStatusesResponse struct {
	Statuses []*BudgetStatus `json:"statuses"`
}

type Alert struct {
	Type     string  `json:"type"`
	BudgetID string  `json:"budget_id"`
	Category string  `json:"category"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
	Amount   float64 `json:"amount"`
}

type CheckBudgetAlertsRequest struct{}

type CheckBudgetAlertsResponse struct {
	Alerts []*Alert `json:"alerts"`
}

type BudgetRecommendation struct {
	CategoryID        string  `json:"category_id"`
	Category          string  `json:"category"`
	CurrentSpending   float64 `json:"current_spending"`
	RecommendedBudget float64 `json:"recommended_budget"`
	Reason            string  `json:"reason"`
	Confidence        int     `json:"confidence"`
}

type GetBudgetRecommendationsRequest struct{}

type GetBudgetRecommendationsResponse struct {
	Recommendations []*BudgetRecommendation `json:"recommendations"`
}
