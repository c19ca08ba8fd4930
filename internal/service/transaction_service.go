package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxBulkDelete   = 100
)

// TransactionService implements the TransactionService. Every mutation
// reconciles the affected account balances inside the storage transaction.
type TransactionService struct {
	store storage.Store
	now   func() time.Time
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

func validateTransactionText(merchant, description string) error {
	if utf8.RuneCountInString(merchant) > 150 {
		return apperr.Validation("merchant must be at most 150 characters")
	}
	if utf8.RuneCountInString(description) > 500 {
		return apperr.Validation("description must be at most 500 characters")
	}
	return nil
}

// resolveKind looks up the category and returns the kind it assigns.
func (s *TransactionService) resolveKind(ctx context.Context, userID, categoryID string) (models.TransactionKind, error) {
	if categoryID == "" {
		return "", apperr.Validation("category is required")
	}
	category, err := s.store.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return "", err
	}
	return category.Kind, nil
}

// CreateTransaction books a transaction and returns the new account balance.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	amount := calculator.Money(msg.Amount)
	if amount.IsZero() {
		return nil, connectError(apperr.Validation("amount cannot be zero"))
	}
	if msg.AccountID == "" {
		return nil, connectError(apperr.Validation("account is required"))
	}
	if err := validateTransactionText(msg.Merchant, msg.Description); err != nil {
		return nil, connectError(err)
	}
	kind, err := s.resolveKind(ctx, userID, msg.CategoryID)
	if err != nil {
		return nil, connectError(err)
	}

	date := s.now().UTC()
	if msg.TransactionDate != nil {
		date = msg.TransactionDate.UTC()
	}

	txn := &models.Transaction{
		UserID:          userID,
		AccountID:       msg.AccountID,
		CategoryID:      msg.CategoryID,
		Kind:            kind,
		Amount:          kind.SignedAmount(amount),
		Merchant:        strings.TrimSpace(msg.Merchant),
		Description:     msg.Description,
		Status:          msg.Status,
		TransactionDate: date,
	}
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		slog.Error("CreateTransaction failed", "user_id", userID, "account_id", msg.AccountID, "error", err)
		return nil, connectError(err)
	}

	account, err := s.store.GetAccount(ctx, userID, txn.AccountID)
	if err != nil {
		return nil, connectError(err)
	}

	slog.Info("Transaction created",
		"user_id", userID,
		"transaction_id", txn.ID,
		"kind", txn.Kind,
		"amount", txn.Amount,
		"account_balance", account.Balance,
	)
	return connect.NewResponse(&api.CreateTransactionResponse{
		Transaction:    toAPITransaction(txn),
		AccountBalance: toFloat(account.Balance),
	}), nil
}

// GetTransaction returns one of the caller's transactions.
func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, userID, req.Msg.TransactionID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// optionalMoney converts an optional wire amount, keeping nil as nil.
func optionalMoney(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := calculator.Money(*v)
	return &d
}

func dateBounds(r api.DateRange) (time.Time, time.Time, error) {
	var start, end time.Time
	if r.Start != nil {
		start = r.Start.UTC()
	}
	if r.End != nil {
		end = r.End.UTC()
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, apperr.Validation("end date is before start date")
	}
	return start, end, nil
}

// ListTransactions returns one page of the caller's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	start, end, err := dateBounds(msg.Dates)
	if err != nil {
		return nil, connectError(err)
	}
	minAmount, maxAmount := optionalMoney(msg.MinAmount), optionalMoney(msg.MaxAmount)
	if minAmount != nil && maxAmount != nil && minAmount.GreaterThan(*maxAmount) {
		return nil, connectError(apperr.Validation("min amount is greater than max amount"))
	}

	page := msg.Page
	if page < 1 {
		page = 1
	}
	limit := msg.Limit
	switch {
	case limit < 1:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}

	txns, total, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{
		AccountID:  msg.AccountID,
		CategoryID: msg.CategoryID,
		Merchant:   msg.Merchant,
		StartDate:  start,
		EndDate:    end,
		MinAmount:  minAmount,
		MaxAmount:  maxAmount,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		slog.Error("ListTransactions failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListTransactionsResponse{
		Transactions: make([]*api.Transaction, len(txns)),
		Pagination: api.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: page*limit < total,
		},
	}
	for i, t := range txns {
		resp.Transactions[i] = toAPITransaction(t)
	}
	return connect.NewResponse(resp), nil
}

// UpdateTransaction changes a transaction. A new category or amount
// re-resolves the kind and the sign of the amount.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	amount := optionalMoney(msg.Amount)
	if amount != nil && amount.IsZero() {
		return nil, connectError(apperr.Validation("amount cannot be zero"))
	}

	txn, err := s.store.GetTransaction(ctx, userID, msg.TransactionID)
	if err != nil {
		return nil, connectError(err)
	}

	if msg.AccountID != nil {
		txn.AccountID = *msg.AccountID
	}
	if msg.CategoryID != nil && *msg.CategoryID != txn.CategoryID {
		kind, err := s.resolveKind(ctx, userID, *msg.CategoryID)
		if err != nil {
			return nil, connectError(err)
		}
		txn.CategoryID = *msg.CategoryID
		txn.Kind = kind
	}
	if amount != nil {
		txn.Amount = *amount
	}
	txn.Amount = txn.Kind.SignedAmount(txn.Amount)
	if msg.Merchant != nil {
		txn.Merchant = strings.TrimSpace(*msg.Merchant)
	}
	if msg.Description != nil {
		txn.Description = *msg.Description
	}
	if msg.Status != nil {
		txn.Status = *msg.Status
	}
	if msg.TransactionDate != nil {
		txn.TransactionDate = msg.TransactionDate.UTC()
	}
	if err := validateTransactionText(txn.Merchant, txn.Description); err != nil {
		return nil, connectError(err)
	}

	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		slog.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Transaction updated", "user_id", userID, "transaction_id", txn.ID)
	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteTransaction(ctx, userID, req.Msg.TransactionID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Transaction deleted", "user_id", userID, "transaction_id", req.Msg.TransactionID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// BulkDeleteTransactions deletes each listed transaction independently and
// reports which ones were deleted.
func (s *TransactionService) BulkDeleteTransactions(ctx context.Context, req *connect.Request[api.BulkDeleteTransactionsRequest]) (*connect.Response[api.BulkDeleteTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := req.Msg.TransactionIDs
	if len(ids) == 0 {
		return nil, connectError(apperr.Validation("no transactions given"))
	}
	if len(ids) > maxBulkDelete {
		return nil, connectError(apperr.Validation("at most %d transactions can be deleted at once", maxBulkDelete))
	}

	resp := &api.BulkDeleteTransactionsResponse{DeletedIDs: []string{}}
	for _, id := range ids {
		if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				slog.Error("BulkDeleteTransactions item failed", "transaction_id", id, "error", err)
			}
			resp.FailedIDs = append(resp.FailedIDs, id)
			continue
		}
		resp.DeletedIDs = append(resp.DeletedIDs, id)
	}

	slog.Info("Transactions bulk deleted", "user_id", userID, "deleted", len(resp.DeletedIDs), "failed", len(resp.FailedIDs))
	return connect.NewResponse(resp), nil
}

// GetTransactionSummary totals income, expenses and per-category amounts.
func (s *TransactionService) GetTransactionSummary(ctx context.Context, req *connect.Request[api.GetTransactionSummaryRequest]) (*connect.Response[api.GetTransactionSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	start, end, err := dateBounds(req.Msg.Dates)
	if err != nil {
		return nil, connectError(err)
	}

	txns, _, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{
		AccountID: req.Msg.AccountID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, connectError(err)
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	summary := calculator.SummarizeCashflow(txnValues(txns), categoryNames(categories))

	resp := &api.GetTransactionSummaryResponse{
		Income:     toFloat(summary.Income),
		Expenses:   toFloat(summary.Expenses),
		Net:        toFloat(summary.Net),
		Count:      summary.Count,
		ByCategory: make([]*api.CategoryTotal, len(summary.ByCategory)),
	}
	for i, c := range summary.ByCategory {
		resp.ByCategory[i] = &api.CategoryTotal{
			CategoryID: c.CategoryID,
			Category:   c.Category,
			Amount:     toFloat(c.Amount),
			Count:      c.Count,
		}
	}
	return connect.NewResponse(resp), nil
}
