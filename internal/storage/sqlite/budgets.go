package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const budgetSelect = `SELECT b.id, b.user_id, b.category_id, c.name, c.color, b.name, b.amount_cents, b.period_type,
	b.start_date, b.end_date, b.alert_threshold, b.rollover, b.created_at, b.updated_at
	FROM budgets b JOIN categories c ON c.id = b.category_id`

const duplicateBudgetMessage = "an active budget already exists for this category and period"

// CreateBudget persists a new budget. The partial unique index on
// (user_id, category_id, period_type) rejects a second active budget.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	now := s.now().Unix()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category_id, name, amount_cents, period_type, start_date, end_date,
		   alert_threshold, rollover, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.CategoryID, budget.Name, toCents(budget.Amount), budget.Period,
		budget.StartDate.Unix(), budget.EndDate.Unix(), budget.AlertThreshold, boolInt(budget.Rollover),
		budget.CreatedAt, budget.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict(duplicateBudgetMessage, err)
	}
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a live budget owned by userID, with its category resolved.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx,
		budgetSelect+` WHERE b.id = ? AND b.user_id = ? AND b.deleted_at IS NULL`,
		budgetID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("budget", budgetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns the user's live budgets ordered by category name.
// ActiveAt keeps budgets whose period covers that instant's UTC day.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string, filter models.BudgetFilter) ([]*models.Budget, error) {
	where := []string{"b.user_id = ?", "b.deleted_at IS NULL"}
	args := []any{userID}

	if filter.CategoryID != "" {
		where = append(where, "b.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Period != "" {
		where = append(where, "b.period_type = ?")
		args = append(args, filter.Period)
	}
	if !filter.ActiveAt.IsZero() {
		dayStart := filter.ActiveAt.UTC().Truncate(24 * time.Hour)
		where = append(where, "b.start_date < ?", "b.end_date >= ?")
		args = append(args, dayStart.Add(24*time.Hour).Unix(), dayStart.Unix())
	}

	rows, err := s.db.QueryContext(ctx,
		budgetSelect+` WHERE `+strings.Join(where, " AND ")+` ORDER BY c.name, b.period_type`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget rewrites a live budget.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = s.now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, name = ?, amount_cents = ?, period_type = ?, start_date = ?,
		   end_date = ?, alert_threshold = ?, rollover = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		budget.CategoryID, budget.Name, toCents(budget.Amount), budget.Period, budget.StartDate.Unix(),
		budget.EndDate.Unix(), budget.AlertThreshold, boolInt(budget.Rollover), budget.UpdatedAt,
		budget.ID, budget.UserID,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict(duplicateBudgetMessage, err)
	}
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return checkAffected(res, "budget", budget.ID)
}

// DeleteBudget soft-deletes a budget, freeing its category and period for a new one.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	now := s.now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET deleted_at = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, budgetID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return checkAffected(res, "budget", budgetID)
}

// ActiveBudgetExists reports whether a live budget other than excludeID
// already covers the category and period type.
func (s *SQLiteStore) ActiveBudgetExists(ctx context.Context, userID, categoryID string, period models.PeriodType, excludeID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM budgets
		 WHERE user_id = ? AND category_id = ? AND period_type = ? AND deleted_at IS NULL AND id != ?
		 LIMIT 1`,
		userID, categoryID, period, excludeID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check budget existence: %w", err)
	}
	return true, nil
}

// SpentInCategory sums the live negative amounts booked by userID in the
// category within [start, end] and returns the absolute value. The sum is
// taken over integer cents, so it is exact.
func (s *SQLiteStore) SpentInCategory(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	var sum int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category_id = ? AND amount_cents < 0 AND deleted_at IS NULL
		   AND transaction_date >= ? AND transaction_date <= ?`,
		userID, categoryID, start.Unix(), end.Unix(),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum spending: %w", err)
	}
	return fromCents(sum).Abs(), nil
}

func scanBudget(row scanner) (*models.Budget, error) {
	b := &models.Budget{}
	var period string
	var amount, start, end int64
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryColor, &b.Name, &amount,
		&period, &start, &end, &b.AlertThreshold, &b.Rollover, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Amount = fromCents(amount)
	b.Period = models.PeriodType(period)
	b.StartDate = time.Unix(start, 0).UTC()
	b.EndDate = time.Unix(end, 0).UTC()
	return b, nil
}
