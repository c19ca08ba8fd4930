package api

import "time"

type Account struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AccountType    string  `json:"account_type"`
	Institution    string  `json:"institution,omitempty"`
	Currency       string  `json:"currency"`
	OpeningBalance float64 `json:"opening_balance"`
	Balance        float64 `json:"balance"`
	CreatedAt      int64   `json:"created_at"`
	UpdatedAt      int64   `json:"updated_at"`
}

type CreateAccountRequest struct {
	Name           string  `json:"name"`
	AccountType    string  `json:"account_type"`
	Institution    string  `json:"institution,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	OpeningBalance float64 `json:"opening_balance"`
}

type CreateAccountResponse struct {
	Account *Account `json:"account"`
}

type GetAccountRequest struct {
	AccountID string `json:"account_id"`
}

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Accounts     []*Account `json:"accounts"`
	TotalBalance float64    `json:"total_balance"`
}

// UpdateAccountRequest changes only the fields that are set.
type UpdateAccountRequest struct {
	AccountID   string  `json:"account_id"`
	Name        *string `json:"name,omitempty"`
	AccountType *string `json:"account_type,omitempty"`
	Institution *string `json:"institution,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}

type UpdateAccountResponse struct {
	Account *Account `json:"account"`
}

type DeleteAccountRequest struct {
	AccountID string `json:"account_id"`
}

type DeleteAccountResponse struct{}

type ReconcileAccountRequest struct {
	AccountID string `json:"account_id"`
}

type ReconcileAccountResponse struct {
	Account         *Account `json:"account"`
	PreviousBalance float64  `json:"previous_balance"`
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Color    string `json:"color,omitempty"`
	IsSystem bool   `json:"is_system"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct {
	Kind string `json:"kind,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

// DateRange bounds a query. Either end may be nil.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}
