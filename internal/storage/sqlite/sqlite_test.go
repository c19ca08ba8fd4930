package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const (
	groceries = "sys-groceries"
	salary    = "sys-salary"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, email, "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func createAccount(t *testing.T, store *SQLiteStore, userID string, opening string) *models.Account {
	t.Helper()

	account := &models.Account{UserID: userID, Name: "Checking", AccountType: "checking", OpeningBalance: money(opening)}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func expense(userID, accountID string, amount string, date time.Time) *models.Transaction {
	return &models.Transaction{
		UserID:          userID,
		AccountID:       accountID,
		CategoryID:      groceries,
		Kind:            models.KindExpense,
		Amount:          money(amount).Neg(),
		Merchant:        "Corner Shop",
		TransactionDate: date,
	}
}

func TestNew_RunsMigrationsOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "finance.db")

	first, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(dbPath)
	require.NoError(t, err)
	defer second.Close()

	categories, err := second.ListCategories(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Len(t, categories, 13)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice@Example.com")

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@EXAMPLE.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("unknown user is nil", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetUsersByIDs skips unknown ids", func(t *testing.T) {
		bob := createUser(t, store, "bob@example.com")
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "bob@example.com", users[bob.ID].Email)
	})
}

func TestTransactionsReconcileBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "student@example.com")
	checking := createAccount(t, store, user.ID, "1000")
	savings := createAccount(t, store, user.ID, "0")
	now := time.Now().UTC()

	balance := func(accountID string) decimal.Decimal {
		t.Helper()
		a, err := store.GetAccount(ctx, user.ID, accountID)
		require.NoError(t, err)
		return a.Balance
	}

	coffee := expense(user.ID, checking.ID, "4.5", now)
	require.NoError(t, store.CreateTransaction(ctx, coffee))
	assertMoney(t, "995.5", balance(checking.ID))
	assert.Equal(t, "USD", coffee.Currency)

	pay := &models.Transaction{UserID: user.ID, AccountID: checking.ID, CategoryID: salary,
		Kind: models.KindIncome, Amount: money("250"), TransactionDate: now}
	require.NoError(t, store.CreateTransaction(ctx, pay))
	assertMoney(t, "1245.5", balance(checking.ID))

	t.Run("update moves the amount between accounts", func(t *testing.T) {
		coffee.AccountID = savings.ID
		coffee.Amount = money("-5")
		require.NoError(t, store.UpdateTransaction(ctx, coffee))

		assertMoney(t, "1250", balance(checking.ID))
		assertMoney(t, "-5", balance(savings.ID))
	})

	t.Run("delete restores the balance", func(t *testing.T) {
		require.NoError(t, store.DeleteTransaction(ctx, user.ID, coffee.ID))
		assertMoney(t, "0", balance(savings.ID))

		_, err := store.GetTransaction(ctx, user.ID, coffee.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("reconcile is idempotent", func(t *testing.T) {
		first, err := store.ReconcileAccountBalance(ctx, checking.ID)
		require.NoError(t, err)
		second, err := store.ReconcileAccountBalance(ctx, checking.ID)
		require.NoError(t, err)

		assertMoney(t, "1250", first)
		assert.True(t, first.Equal(second))
	})

	t.Run("other users cannot write to the account", func(t *testing.T) {
		mallory := createUser(t, store, "mallory@example.com")
		err := store.CreateTransaction(ctx, expense(mallory.ID, checking.ID, "1", now))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assertMoney(t, "1250", balance(checking.ID))
	})

	t.Run("account with transactions cannot be deleted", func(t *testing.T) {
		err := store.DeleteAccount(ctx, user.ID, checking.ID)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		require.NoError(t, store.DeleteAccount(ctx, user.ID, savings.ID))
		_, err = store.GetAccount(ctx, user.ID, savings.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestConcurrentTransactionsNoLostUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "busy@example.com")
	account := createAccount(t, store, user.ID, "1000")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			return store.CreateTransaction(gctx, expense(user.ID, account.ID, "10", time.Now()))
		})
	}
	require.NoError(t, g.Wait())

	got, err := store.GetAccount(ctx, user.ID, account.ID)
	require.NoError(t, err)
	assertMoney(t, "500", got.Balance)
}

func TestUpdateTransaction_AdoptsAccountCurrency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "traveller@example.com")
	home := createAccount(t, store, user.ID, "100")
	abroad := &models.Account{UserID: user.ID, Name: "Euro card", AccountType: "credit", Currency: "EUR"}
	require.NoError(t, store.CreateAccount(ctx, abroad))

	txn := expense(user.ID, home.ID, "12", time.Now())
	require.NoError(t, store.CreateTransaction(ctx, txn))
	assert.Equal(t, "USD", txn.Currency)

	txn.AccountID = abroad.ID
	require.NoError(t, store.UpdateTransaction(ctx, txn))
	assert.Equal(t, "EUR", txn.Currency)

	got, err := store.GetTransaction(ctx, user.ID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, abroad.ID, got.AccountID)
}

func TestSpentInCategory_SumsCentsExactly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "exact@example.com")
	account := createAccount(t, store, user.ID, "0")
	start := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.October, 31, 23, 59, 59, 0, time.UTC)

	for i, amount := range []string{"0.02", "64.07", "35.91"} {
		require.NoError(t, store.CreateTransaction(ctx, expense(user.ID, account.ID, amount, start.AddDate(0, 0, i+1))))
	}

	spent, err := store.SpentInCategory(ctx, user.ID, groceries, start, end)
	require.NoError(t, err)
	assertMoney(t, "100", spent)

	balance, err := store.ReconcileAccountBalance(ctx, account.ID)
	require.NoError(t, err)
	assertMoney(t, "-100", balance)
}

func TestListTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "lister@example.com")
	account := createAccount(t, store, user.ID, "0")
	base := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		txn := expense(user.ID, account.ID, fmt.Sprint(10*(i+1)), base.AddDate(0, 0, i))
		if i == 4 {
			txn.Merchant = "Book Store"
		}
		require.NoError(t, store.CreateTransaction(ctx, txn))
	}

	t.Run("pages newest first", func(t *testing.T) {
		page, total, err := store.ListTransactions(ctx, user.ID, models.TransactionFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page, 2)
		assertMoney(t, "-30", page[0].Amount)
		assertMoney(t, "-20", page[1].Amount)
	})

	t.Run("filters by merchant", func(t *testing.T) {
		txns, total, err := store.ListTransactions(ctx, user.ID, models.TransactionFilter{Merchant: "book"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assertMoney(t, "-50", txns[0].Amount)
	})

	t.Run("filters by absolute amount and date", func(t *testing.T) {
		lo, hi := money("15"), money("45")
		txns, total, err := store.ListTransactions(ctx, user.ID, models.TransactionFilter{
			MinAmount: &lo,
			MaxAmount: &hi,
			StartDate: base.AddDate(0, 0, 2),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, txns, 2)
	})
}

func TestBudgets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "budgeter@example.com")
	account := createAccount(t, store, user.ID, "0")

	start := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.October, 31, 12, 0, 0, 0, time.UTC)
	budget := &models.Budget{
		UserID:         user.ID,
		CategoryID:     groceries,
		Amount:         money("100"),
		Period:         models.PeriodMonthly,
		StartDate:      start,
		EndDate:        end,
		AlertThreshold: 80,
	}
	require.NoError(t, store.CreateBudget(ctx, budget))

	t.Run("get resolves the category", func(t *testing.T) {
		got, err := store.GetBudget(ctx, user.ID, budget.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.CategoryName)
		assert.True(t, start.Equal(got.StartDate))
		assert.True(t, end.Equal(got.EndDate))
	})

	t.Run("second active budget is a conflict", func(t *testing.T) {
		exists, err := store.ActiveBudgetExists(ctx, user.ID, groceries, models.PeriodMonthly, "")
		require.NoError(t, err)
		assert.True(t, exists)

		dup := *budget
		dup.ID = ""
		assert.ErrorIs(t, store.CreateBudget(ctx, &dup), apperr.ErrConflict)
	})

	t.Run("spending counts only live expenses in range", func(t *testing.T) {
		inRange := expense(user.ID, account.ID, "30", start.Add(48*time.Hour))
		require.NoError(t, store.CreateTransaction(ctx, inRange))
		require.NoError(t, store.CreateTransaction(ctx, expense(user.ID, account.ID, "12.5", start.Add(72*time.Hour))))
		require.NoError(t, store.CreateTransaction(ctx, expense(user.ID, account.ID, "99", start.AddDate(0, -1, 0))))
		refund := expense(user.ID, account.ID, "-5", start.Add(96*time.Hour))
		require.NoError(t, store.CreateTransaction(ctx, refund))
		deleted := expense(user.ID, account.ID, "7", start.Add(96*time.Hour))
		require.NoError(t, store.CreateTransaction(ctx, deleted))
		require.NoError(t, store.DeleteTransaction(ctx, user.ID, deleted.ID))

		spent, err := store.SpentInCategory(ctx, user.ID, groceries, start, end)
		require.NoError(t, err)
		assertMoney(t, "42.5", spent)
	})

	t.Run("active filter matches the whole last day", func(t *testing.T) {
		lateOnLastDay := time.Date(2026, time.October, 31, 22, 0, 0, 0, time.UTC)
		budgets, err := store.ListBudgets(ctx, user.ID, models.BudgetFilter{ActiveAt: lateOnLastDay})
		require.NoError(t, err)
		assert.Len(t, budgets, 1)

		budgets, err = store.ListBudgets(ctx, user.ID, models.BudgetFilter{ActiveAt: end.AddDate(0, 0, 1)})
		require.NoError(t, err)
		assert.Empty(t, budgets)
	})

	t.Run("delete frees the slot", func(t *testing.T) {
		require.NoError(t, store.DeleteBudget(ctx, user.ID, budget.ID))
		assert.ErrorIs(t, store.DeleteBudget(ctx, user.ID, budget.ID), apperr.ErrNotFound)

		again := &models.Budget{UserID: user.ID, CategoryID: groceries, Amount: money("120"),
			Period: models.PeriodMonthly, StartDate: start, EndDate: end, AlertThreshold: 80}
		require.NoError(t, store.CreateBudget(ctx, again))
	})
}

func TestSplits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ann := createUser(t, store, "ann@example.com")
	ben := createUser(t, store, "ben@example.com")
	cat := createUser(t, store, "cat@example.com")

	split := &models.BillSplit{
		CreatedBy:   ann.ID,
		Description: "Pizza night",
		TotalAmount: money("90"),
		SplitType:   models.SplitEqual,
		Participants: []models.SplitParticipant{
			{UserID: ben.ID, AmountOwed: money("45")},
			{UserID: cat.ID, AmountOwed: money("45")},
		},
	}
	require.NoError(t, store.CreateSplit(ctx, split))
	assert.Equal(t, models.SplitPending, split.Status)

	t.Run("get loads participants in order", func(t *testing.T) {
		got, err := store.GetSplit(ctx, split.ID)
		require.NoError(t, err)
		require.Len(t, got.Participants, 2)
		assert.Equal(t, ben.ID, got.Participants[0].UserID)
		assert.Equal(t, models.ParticipantPending, got.Participants[1].Status)
	})

	t.Run("failed mutation writes nothing", func(t *testing.T) {
		_, err := store.UpdateSplit(ctx, split.ID, func(s *models.BillSplit) (*models.Settlement, error) {
			s.Participants[0].AmountPaid = money("45")
			s.Participants[0].Status = models.ParticipantPaid
			return nil, apperr.Validation("nope")
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		got, err := store.GetSplit(ctx, split.ID)
		require.NoError(t, err)
		assertMoney(t, "0", got.Participants[0].AmountPaid)
	})

	t.Run("mutation persists shares, status and settlement", func(t *testing.T) {
		updated, err := store.UpdateSplit(ctx, split.ID, func(s *models.BillSplit) (*models.Settlement, error) {
			p := &s.Participants[0]
			p.AmountPaid = money("45")
			p.Status = models.ParticipantPaid
			p.PaidAt = 1234
			s.Status = models.SplitPartial
			return &models.Settlement{ParticipantID: p.ID, PayerID: p.UserID, RecordedBy: p.UserID, Amount: money("45")}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, models.SplitPartial, updated.Status)

		got, err := store.GetSplit(ctx, split.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SplitPartial, got.Status)
		assert.Equal(t, models.ParticipantPaid, got.Participants[0].Status)
		assert.Equal(t, int64(1234), got.Participants[0].PaidAt)

		settlements, err := store.ListSettlementsBySplit(ctx, split.ID)
		require.NoError(t, err)
		require.Len(t, settlements, 1)
		assertMoney(t, "45", settlements[0].Amount)
	})

	t.Run("settling stamps settled_at", func(t *testing.T) {
		updated, err := store.UpdateSplit(ctx, split.ID, func(s *models.BillSplit) (*models.Settlement, error) {
			s.Participants[1].AmountPaid = money("45")
			s.Participants[1].Status = models.ParticipantPaid
			s.Status = models.SplitSettled
			return nil, nil
		})
		require.NoError(t, err)
		assert.NotZero(t, updated.SettledAt)
	})

	t.Run("list for creator and participant", func(t *testing.T) {
		for _, userID := range []string{ann.ID, cat.ID} {
			splits, err := store.ListSplitsForUser(ctx, userID)
			require.NoError(t, err)
			require.Len(t, splits, 1)
			assert.Len(t, splits[0].Participants, 2)
		}

		stranger := createUser(t, store, "stranger@example.com")
		splits, err := store.ListSplitsForUser(ctx, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, splits)
	})

	t.Run("comments keep their order", func(t *testing.T) {
		require.NoError(t, store.AddComment(ctx, &models.SplitComment{SplitID: split.ID, UserID: ben.ID, Content: "paid!"}))
		require.NoError(t, store.AddComment(ctx, &models.SplitComment{SplitID: split.ID, UserID: ann.ID, Content: "thanks"}))

		comments, err := store.ListComments(ctx, split.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "paid!", comments[0].Content)
	})

	t.Run("delete hides the split", func(t *testing.T) {
		require.NoError(t, store.DeleteSplit(ctx, split.ID))
		_, err := store.GetSplit(ctx, split.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ann := createUser(t, store, "ann@example.com")
	ben := createUser(t, store, "ben@example.com")

	group := &models.Group{Name: "Flat 4B", CreatedBy: ann.ID, Members: []string{ann.ID}}
	require.NoError(t, store.CreateGroup(ctx, group))

	require.NoError(t, store.AddGroupMember(ctx, group.ID, ben.ID))
	assert.ErrorIs(t, store.AddGroupMember(ctx, group.ID, ben.ID), apperr.ErrConflict)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ann.ID, ben.ID}, got.Members)

	groups, err := store.ListGroupsForUser(ctx, ben.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Flat 4B", groups[0].Name)

	require.NoError(t, store.RemoveGroupMember(ctx, group.ID, ben.ID))
	groups, err = store.ListGroupsForUser(ctx, ben.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = store.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
