package api

import "time"

type Transaction struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	CategoryID      string    `json:"category_id"`
	Kind            string    `json:"kind"`
	Amount          float64   `json:"amount"`
	Merchant        string    `json:"merchant,omitempty"`
	Description     string    `json:"description,omitempty"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       int64     `json:"created_at"`
	UpdatedAt       int64     `json:"updated_at"`
}

// CreateTransactionRequest books a transaction. The sign of Amount is
// normalized from the category kind: expenses are stored negative and
// income positive.
type CreateTransactionRequest struct {
	AccountID       string     `json:"account_id"`
	CategoryID      string     `json:"category_id"`
	Amount          float64    `json:"amount"`
	Merchant        string     `json:"merchant,omitempty"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction    *Transaction `json:"transaction"`
	AccountBalance float64      `json:"account_balance"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	AccountID  string    `json:"account_id,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Merchant   string    `json:"merchant,omitempty"`
	Dates      DateRange `json:"dates"`
	MinAmount  *float64  `json:"min_amount,omitempty"`
	MaxAmount  *float64  `json:"max_amount,omitempty"`
	Page       int       `json:"page,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Pagination   Pagination     `json:"pagination"`
}

// UpdateTransactionRequest changes only the fields that are set.
type UpdateTransactionRequest struct {
	TransactionID   string     `json:"transaction_id"`
	AccountID       *string    `json:"account_id,omitempty"`
	CategoryID      *string    `json:"category_id,omitempty"`
	Amount          *float64   `json:"amount,omitempty"`
	Merchant        *string    `json:"merchant,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Status          *string    `json:"status,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

type BulkDeleteTransactionsRequest struct {
	TransactionIDs []string `json:"transaction_ids"`
}

type BulkDeleteTransactionsResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
	FailedIDs  []string `json:"failed_ids,omitempty"`
}

type GetTransactionSummaryRequest struct {
	AccountID string    `json:"account_id,omitempty"`
	Dates     DateRange `json:"dates"`
}

type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
}

type GetTransactionSummaryResponse struct {
	Income     float64          `json:"income"`
	Expenses   float64          `json:"expenses"`
	Net        float64          `json:"net"`
	Count      int              `json:"count"`
	ByCategory []*CategoryTotal `json:"by_category"`
}
