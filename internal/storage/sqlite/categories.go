package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

const categoryColumns = `id, COALESCE(user_id, ''), name, kind, color, is_system`

// CreateCategory persists a user-defined category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.IsSystem = false

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, kind, color, is_system) VALUES (?, ?, ?, ?, ?, 0)`,
		category.ID, category.UserID, category.Name, category.Kind, category.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a system category or one owned by userID.
func (s *SQLiteStore) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND (is_system = 1 OR user_id = ?)`,
		categoryID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category", categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListCategories returns system categories followed by the user's own, by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE is_system = 1 OR user_id = ?
		 ORDER BY is_system DESC, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func scanCategory(row scanner) (*models.Category, error) {
	c := &models.Category{}
	var kind string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.Color, &c.IsSystem); err != nil {
		return nil, err
	}
	c.Kind = models.TransactionKind(kind)
	return c, nil
}
