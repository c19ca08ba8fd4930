package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const accountColumns = `id, user_id, name, account_type, institution, currency, opening_balance_cents, balance_cents, created_at, updated_at`

// CreateAccount persists a new account. Its balance starts at the opening balance.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := s.now().Unix()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.Currency == "" {
		account.Currency = "USD"
	}
	account.Balance = account.OpeningBalance

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.Name, account.AccountType, account.Institution,
		account.Currency, toCents(account.OpeningBalance), toCents(account.Balance), account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves a live account owned by userID.
func (s *SQLiteStore) GetAccount(ctx context.Context, userID, accountID string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		accountID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("account", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns the user's live accounts, oldest first.
func (s *SQLiteStore) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount writes name, type, institution and currency.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = s.now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, account_type = ?, institution = ?, currency = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		account.Name, account.AccountType, account.Institution, account.Currency, account.UpdatedAt,
		account.ID, account.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return checkAffected(res, "account", account.ID)
}

// DeleteAccount soft-deletes an account. Accounts that still hold live
// transactions are refused.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, userID, accountID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireAccount(ctx, tx, userID, accountID); err != nil {
			return err
		}

		var live int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions WHERE account_id = ? AND deleted_at IS NULL`,
			accountID,
		).Scan(&live)
		if err != nil {
			return fmt.Errorf("failed to count transactions: %w", err)
		}
		if live > 0 {
			return apperr.Validation("account has %d transactions, delete them first", live)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE accounts SET deleted_at = ?, updated_at = ? WHERE id = ?`,
			s.now().Unix(), s.now().Unix(), accountID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
}

// ReconcileAccountBalance recomputes an account's balance in its own transaction.
func (s *SQLiteStore) ReconcileAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		balance, err = s.reconcileAccountBalance(ctx, tx, accountID)
		return err
	})
	return balance, err
}

// reconcileAccountBalance overwrites the stored balance with the opening
// balance plus the sum of all live transactions. It is the only code path
// that writes accounts.balance_cents after creation.
func (s *SQLiteStore) reconcileAccountBalance(ctx context.Context, q queryer, accountID string) (decimal.Decimal, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET
		   balance_cents = opening_balance_cents + COALESCE(
		     (SELECT SUM(amount_cents) FROM transactions WHERE account_id = ? AND deleted_at IS NULL), 0),
		   updated_at = ?
		 WHERE id = ?`,
		accountID, s.now().Unix(), accountID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to reconcile account balance: %w", err)
	}
	if err := checkAffected(res, "account", accountID); err != nil {
		return decimal.Zero, err
	}

	var cents int64
	if err := q.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE id = ?`, accountID).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read account balance: %w", err)
	}
	return fromCents(cents), nil
}

// ListAccountIDs returns the ids of every live account.
func (s *SQLiteStore) ListAccountIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM accounts WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list account ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account ids: %w", err)
	}
	return ids, nil
}

// requireAccount fails with not-found unless userID owns a live account with accountID.
func requireAccount(ctx context.Context, q queryer, userID, accountID string) error {
	var exists int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		accountID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("account", accountID)
	}
	if err != nil {
		return fmt.Errorf("failed to check account existence: %w", err)
	}
	return nil
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	var opening, balance int64
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.AccountType, &a.Institution, &a.Currency,
		&opening, &balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.OpeningBalance = fromCents(opening)
	a.Balance = fromCents(balance)
	return a, nil
}
