package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags a transaction as income, expense or transfer.
// It is resolved once from the category when the transaction is written and
// stored on the row, so reads never re-derive it through a category join.
type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}
	return false
}

// SignedAmount applies the kind's sign convention to amount.
// Expenses are always negative, income always positive, transfers keep the
// caller's sign.
func (k TransactionKind) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	switch k {
	case KindExpense:
		return amount.Abs().Neg()
	case KindIncome:
		return amount.Abs()
	}
	return amount
}

// Account represents a user's bank account, card or wallet.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// UserID is the owner of the account.
	UserID string

	// Name is the display name (e.g., "Checking", "Meal card").
	Name string

	// AccountType is a free-form type label (checking, savings, credit, cash).
	AccountType string

	// Institution is the optional bank or provider name.
	Institution string

	// Currency is the ISO currency code. Defaults to USD.
	Currency string

	// OpeningBalance is the balance the account was created with.
	OpeningBalance decimal.Decimal

	// Balance is the materialized balance: OpeningBalance plus the sum of all
	// non-deleted transaction amounts. Only the balance reconciler writes it.
	Balance decimal.Decimal

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last write, including reconciliation.
	UpdatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, zero while active.
	DeletedAt int64
}

// Category groups transactions for budgeting and reporting.
type Category struct {
	// ID is the unique identifier for the category.
	ID string

	// UserID is the owner. Empty for system categories.
	UserID string

	// Name is the display name (e.g., "Groceries").
	Name string

	// Kind decides the sign of transactions booked in this category.
	Kind TransactionKind

	// Color is a hex color used by clients.
	Color string

	// IsSystem marks categories shared by every user.
	IsSystem bool
}

// Transaction is a single ledger entry.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owner of the transaction.
	UserID string

	// AccountID is the account the amount is booked against.
	AccountID string

	// CategoryID is the category the transaction belongs to.
	CategoryID string

	// Kind is resolved from the category at write time.
	Kind TransactionKind

	// Amount is signed: negative for expenses, positive for income.
	Amount decimal.Decimal

	// Merchant is the payee or payer name.
	Merchant string

	// Description is an optional free-form note.
	Description string

	// Currency is the ISO currency code, defaulting to the account currency.
	Currency string

	// Status is a free-form status label (e.g., "cleared", "pending").
	Status string

	// TransactionDate is when the transaction happened.
	TransactionDate time.Time

	// CreatedAt is the Unix timestamp when the row was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last update.
	UpdatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, zero while active.
	DeletedAt int64
}

// TransactionFilter narrows a transaction listing. Zero values mean "any".
// MinAmount and MaxAmount compare against the absolute amount.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	Merchant   string
	StartDate  time.Time
	EndDate    time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Page       int
	Limit      int
}
