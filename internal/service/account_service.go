package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

var accountTypes = map[string]bool{
	"checking": true,
	"savings":  true,
	"credit":   true,
	"cash":     true,
	"other":    true,
}

// AccountService implements the AccountService: accounts and categories.
type AccountService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewAccountService creates an AccountService. m may be nil.
func NewAccountService(store storage.Store, m *metrics.Metrics) *AccountService {
	return &AccountService{store: store, metrics: m}
}

func validateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("account name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return apperr.Validation("account name must be at most 100 characters")
	}
	return nil
}

func validateAccountType(accountType string) error {
	if !accountTypes[accountType] {
		return apperr.Validation("invalid account type: %q", accountType)
	}
	return nil
}

// normalizeCurrency upper-cases a 3-letter ISO code, defaulting to USD.
func normalizeCurrency(currency string) (string, error) {
	if currency == "" {
		return "USD", nil
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return "", apperr.Validation("currency must be a 3-letter ISO code")
	}
	return currency, nil
}

// CreateAccount opens an account. Its balance starts at the opening balance.
func (s *AccountService) CreateAccount(ctx context.Context, req *connect.Request[api.CreateAccountRequest]) (*connect.Response[api.CreateAccountResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if err := validateAccountName(msg.Name); err != nil {
		return nil, connectError(err)
	}
	if err := validateAccountType(msg.AccountType); err != nil {
		return nil, connectError(err)
	}
	currency, err := normalizeCurrency(msg.Currency)
	if err != nil {
		return nil, connectError(err)
	}

	account := &models.Account{
		UserID:         userID,
		Name:           strings.TrimSpace(msg.Name),
		AccountType:    msg.AccountType,
		Institution:    msg.Institution,
		Currency:       currency,
		OpeningBalance: calculator.Money(msg.OpeningBalance),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		slog.Error("CreateAccount failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Account created", "user_id", userID, "account_id", account.ID)
	return connect.NewResponse(&api.CreateAccountResponse{Account: toAPIAccount(account)}), nil
}

// GetAccount returns one of the caller's accounts.
func (s *AccountService) GetAccount(ctx context.Context, req *connect.Request[api.GetAccountRequest]) (*connect.Response[api.GetAccountResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, userID, req.Msg.AccountID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetAccountResponse{Account: toAPIAccount(account)}), nil
}

// ListAccounts returns the caller's accounts and their combined balance.
func (s *AccountService) ListAccounts(ctx context.Context, req *connect.Request[api.ListAccountsRequest]) (*connect.Response[api.ListAccountsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		slog.Error("ListAccounts failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListAccountsResponse{Accounts: make([]*api.Account, len(accounts))}
	total := decimal.Zero
	for i, a := range accounts {
		resp.Accounts[i] = toAPIAccount(a)
		total = total.Add(a.Balance)
	}
	resp.TotalBalance = toFloat(total)
	return connect.NewResponse(resp), nil
}

// UpdateAccount changes descriptive fields. The balance is never writable.
func (s *AccountService) UpdateAccount(ctx context.Context, req *connect.Request[api.UpdateAccountRequest]) (*connect.Response[api.UpdateAccountResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Name != nil {
		if err := validateAccountName(*msg.Name); err != nil {
			return nil, connectError(err)
		}
	}
	if msg.AccountType != nil {
		if err := validateAccountType(*msg.AccountType); err != nil {
			return nil, connectError(err)
		}
	}
	var currency string
	if msg.Currency != nil {
		if currency, err = normalizeCurrency(*msg.Currency); err != nil {
			return nil, connectError(err)
		}
	}

	account, err := s.store.GetAccount(ctx, userID, msg.AccountID)
	if err != nil {
		return nil, connectError(err)
	}
	if msg.Name != nil {
		account.Name = strings.TrimSpace(*msg.Name)
	}
	if msg.AccountType != nil {
		account.AccountType = *msg.AccountType
	}
	if msg.Institution != nil {
		account.Institution = *msg.Institution
	}
	if msg.Currency != nil {
		account.Currency = currency
	}

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		slog.Error("UpdateAccount failed", "account_id", account.ID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.UpdateAccountResponse{Account: toAPIAccount(account)}), nil
}

// DeleteAccount soft-deletes an account without live transactions.
func (s *AccountService) DeleteAccount(ctx context.Context, req *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteAccount(ctx, userID, req.Msg.AccountID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Account deleted", "user_id", userID, "account_id", req.Msg.AccountID)
	return connect.NewResponse(&api.DeleteAccountResponse{}), nil
}

// ReconcileAccount recomputes an account's balance from its ledger.
func (s *AccountService) ReconcileAccount(ctx context.Context, req *connect.Request[api.ReconcileAccountRequest]) (*connect.Response[api.ReconcileAccountResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, userID, req.Msg.AccountID)
	if err != nil {
		return nil, connectError(err)
	}
	previous := account.Balance

	balance, err := s.store.ReconcileAccountBalance(ctx, account.ID)
	if err != nil {
		slog.Error("ReconcileAccount failed", "account_id", account.ID, "error", err)
		return nil, connectError(err)
	}
	s.metrics.AccountReconciled()
	account.Balance = balance

	if !previous.Equal(balance) {
		slog.Warn("Account balance drifted", "account_id", account.ID, "previous", previous, "balance", balance)
	}
	return connect.NewResponse(&api.ReconcileAccountResponse{
		Account:         toAPIAccount(account),
		PreviousBalance: toFloat(previous),
	}), nil
}

// CreateCategory adds a user-defined income or expense category.
func (s *AccountService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError(apperr.Validation("category name is required"))
	}
	kind := models.TransactionKind(req.Msg.Kind)
	if kind != models.KindIncome && kind != models.KindExpense {
		return nil, connectError(apperr.Validation("category kind must be income or expense"))
	}

	category := &models.Category{UserID: userID, Name: name, Kind: kind, Color: req.Msg.Color}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// ListCategories returns the system categories and the caller's own.
func (s *AccountService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.ListCategoriesResponse{Categories: []*api.Category{}}
	for _, c := range categories {
		if req.Msg.Kind != "" && string(c.Kind) != req.Msg.Kind {
			continue
		}
		resp.Categories = append(resp.Categories, toAPICategory(c))
	}
	return connect.NewResponse(resp), nil
}
