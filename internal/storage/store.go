// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// AccountStore persists accounts. Every read is scoped to the owning user;
// an account owned by someone else is reported as not found.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)

	// UpdateAccount writes the descriptive fields. It never touches the balance.
	UpdateAccount(ctx context.Context, account *models.Account) error

	// DeleteAccount soft-deletes an account that has no live transactions.
	DeleteAccount(ctx context.Context, userID, accountID string) error

	// ReconcileAccountBalance recomputes the balance from the ledger in its
	// own transaction and returns the stored value.
	ReconcileAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ListAccountIDs returns the ids of every non-deleted account.
	ListAccountIDs(ctx context.Context) ([]string, error)
}

// CategoryStore persists categories. System categories are visible to everyone.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
}

// TransactionStore persists ledger entries. Create, update and delete
// reconcile the affected account balances in the same database transaction.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error)

	// ListTransactions returns one page of matching transactions, newest first,
	// and the total number of matches.
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, int, error)

	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, txnID string) error

	// MonthlyCategorySpending totals expenses per category and calendar month
	// since the given instant.
	MonthlyCategorySpending(ctx context.Context, userID string, since time.Time) ([]models.CategoryMonth, error)
}

// BudgetStore persists budgets and aggregates the spending they are measured against.
type BudgetStore interface {
	// CreateBudget fails with a conflict when an active budget already exists
	// for the same user, category and period type.
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string, filter models.BudgetFilter) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// ActiveBudgetExists reports whether another active budget, other than
	// excludeID, covers the same user, category and period type.
	ActiveBudgetExists(ctx context.Context, userID, categoryID string, period models.PeriodType, excludeID string) (bool, error)

	// SpentInCategory returns the absolute sum of negative amounts booked in
	// the category within [start, end].
	SpentInCategory(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error)
}

// SplitMutation changes a split loaded inside a storage transaction. The
// returned settlement, if any, is recorded alongside the changes. Returning an
// error aborts the transaction without writing anything.
type SplitMutation func(split *models.BillSplit) (*models.Settlement, error)

// SplitStore persists bill splits with their shares, payments and comments.
type SplitStore interface {
	CreateSplit(ctx context.Context, split *models.BillSplit) error

	// GetSplit returns a non-deleted split with its participants.
	GetSplit(ctx context.Context, splitID string) (*models.BillSplit, error)

	// ListSplitsForUser returns splits the user created or holds a share in.
	ListSplitsForUser(ctx context.Context, userID string) ([]*models.BillSplit, error)
	ListSplitsByGroup(ctx context.Context, groupID string) ([]*models.BillSplit, error)

	// UpdateSplit applies mutate atomically and persists share and split status.
	UpdateSplit(ctx context.Context, splitID string, mutate SplitMutation) (*models.BillSplit, error)
	DeleteSplit(ctx context.Context, splitID string) error

	ListSettlementsBySplit(ctx context.Context, splitID string) ([]*models.Settlement, error)

	AddComment(ctx context.Context, comment *models.SplitComment) error
	ListComments(ctx context.Context, splitID string) ([]*models.SplitComment, error)

	CreateReminder(ctx context.Context, reminder *models.PaymentReminder) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	AccountStore
	CategoryStore
	TransactionStore
	BudgetStore
	SplitStore
	GroupStore

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
