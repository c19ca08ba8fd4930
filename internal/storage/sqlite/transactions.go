package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const transactionColumns = `id, user_id, account_id, category_id, kind, amount_cents, merchant, description,
	currency, status, transaction_date, created_at, updated_at`

// CreateTransaction inserts a transaction and reconciles its account balance
// in the same database transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := s.now().Unix()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	if txn.Status == "" {
		txn.Status = "cleared"
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		currency, err := accountCurrency(ctx, tx, txn.UserID, txn.AccountID)
		if err != nil {
			return err
		}
		if txn.Currency == "" {
			txn.Currency = currency
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.UserID, txn.AccountID, txn.CategoryID, txn.Kind, toCents(txn.Amount), txn.Merchant,
			txn.Description, txn.Currency, txn.Status, txn.TransactionDate.Unix(), txn.CreatedAt, txn.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		_, err = s.reconcileAccountBalance(ctx, tx, txn.AccountID)
		return err
	})
}

// accountCurrency returns the currency of a live account owned by userID.
func accountCurrency(ctx context.Context, q queryer, userID, accountID string) (string, error) {
	var currency string
	err := q.QueryRowContext(ctx,
		`SELECT currency FROM accounts WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		accountID, userID,
	).Scan(&currency)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("account", accountID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get account: %w", err)
	}
	return currency, nil
}

// GetTransaction retrieves a live transaction owned by userID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error) {
	return getTransaction(ctx, s.db, userID, txnID)
}

func getTransaction(ctx context.Context, q queryer, userID, txnID string) (*models.Transaction, error) {
	txn, err := scanTransaction(q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		txnID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("transaction", txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns one page of the user's transactions, newest first,
// together with the number of matches across all pages. A non-positive limit
// returns every match.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, int, error) {
	where := []string{"user_id = ?", "deleted_at IS NULL"}
	args := []any{userID}

	if filter.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Merchant != "" {
		where = append(where, "merchant LIKE ?")
		args = append(args, "%"+filter.Merchant+"%")
	}
	if !filter.StartDate.IsZero() {
		where = append(where, "transaction_date >= ?")
		args = append(args, filter.StartDate.Unix())
	}
	if !filter.EndDate.IsZero() {
		where = append(where, "transaction_date <= ?")
		args = append(args, filter.EndDate.Unix())
	}
	if filter.MinAmount != nil {
		where = append(where, "ABS(amount_cents) >= ?")
		args = append(args, toCents(*filter.MinAmount))
	}
	if filter.MaxAmount != nil {
		where = append(where, "ABS(amount_cents) <= ?")
		args = append(args, toCents(*filter.MaxAmount))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + clause +
		` ORDER BY transaction_date DESC, created_at DESC, id`
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, total, nil
}

// UpdateTransaction rewrites a transaction and reconciles every account it
// touched: the previous one and, when it moved, the new one. A transaction
// moved to another account takes that account's currency.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = s.now().Unix()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getTransaction(ctx, tx, txn.UserID, txn.ID)
		if err != nil {
			return err
		}
		if txn.AccountID != existing.AccountID {
			currency, err := accountCurrency(ctx, tx, txn.UserID, txn.AccountID)
			if err != nil {
				return err
			}
			txn.Currency = currency
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET account_id = ?, category_id = ?, kind = ?, amount_cents = ?, merchant = ?,
			   description = ?, currency = ?, status = ?, transaction_date = ?, updated_at = ?
			 WHERE id = ?`,
			txn.AccountID, txn.CategoryID, txn.Kind, toCents(txn.Amount), txn.Merchant, txn.Description,
			txn.Currency, txn.Status, txn.TransactionDate.Unix(), txn.UpdatedAt, txn.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		if _, err := s.reconcileAccountBalance(ctx, tx, existing.AccountID); err != nil {
			return err
		}
		if txn.AccountID != existing.AccountID {
			if _, err := s.reconcileAccountBalance(ctx, tx, txn.AccountID); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTransaction soft-deletes a transaction and reconciles its account.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getTransaction(ctx, tx, userID, txnID)
		if err != nil {
			return err
		}

		now := s.now().Unix()
		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET deleted_at = ?, updated_at = ? WHERE id = ?`,
			now, now, txnID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		_, err = s.reconcileAccountBalance(ctx, tx, existing.AccountID)
		return err
	})
}

// MonthlyCategorySpending totals live expenses per category and UTC calendar month.
func (s *SQLiteStore) MonthlyCategorySpending(ctx context.Context, userID string, since time.Time) ([]models.CategoryMonth, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.category_id, c.name, strftime('%Y-%m', t.transaction_date, 'unixepoch') AS month,
		        SUM(ABS(t.amount_cents))
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.kind = ? AND t.deleted_at IS NULL AND t.transaction_date >= ?
		 GROUP BY t.category_id, c.name, month
		 ORDER BY t.category_id, month`,
		userID, models.KindExpense, since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly spending: %w", err)
	}
	defer rows.Close()

	var months []models.CategoryMonth
	for rows.Next() {
		var m models.CategoryMonth
		var total int64
		if err := rows.Scan(&m.CategoryID, &m.Category, &m.Month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly spending: %w", err)
		}
		m.Total = fromCents(total)
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly spending: %w", err)
	}
	return months, nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var kind string
	var amount, date int64
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &kind, &amount, &t.Merchant,
		&t.Description, &t.Currency, &t.Status, &date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Amount = fromCents(amount)
	t.Kind = models.TransactionKind(kind)
	t.TransactionDate = time.Unix(date, 0).UTC()
	return t, nil
}
