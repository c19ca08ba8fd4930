package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
)

const splitColumns = `id, created_by, COALESCE(group_id, ''), description, total_cents, split_type, status,
	bill_date, created_at, COALESCE(settled_at, 0)`

// CreateSplit persists a new split and its participant shares.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.BillSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = s.now().Unix()
	}
	if split.BillDate == 0 {
		split.BillDate = split.CreatedAt
	}
	if split.Status == "" {
		split.Status = models.SplitPending
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bill_splits (id, created_by, group_id, description, total_cents, split_type, status, bill_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			split.ID, split.CreatedBy, nullString(split.GroupID), split.Description, toCents(split.TotalAmount),
			split.SplitType, split.Status, split.BillDate, split.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}

		for i := range split.Participants {
			p := &split.Participants[i]
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			p.SplitID = split.ID
			if p.Status == "" {
				p.Status = models.ParticipantPending
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO split_participants (id, split_id, user_id, owed_cents, paid_cents, status, paid_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.SplitID, p.UserID, toCents(p.AmountOwed), toCents(p.AmountPaid), p.Status, nullInt(p.PaidAt),
			)
			if isUniqueViolation(err) {
				return apperr.Validation("duplicate participant: %s", p.UserID)
			}
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
		return nil
	})
}

// GetSplit retrieves a live split with its participants.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.BillSplit, error) {
	return loadSplit(ctx, s.db, splitID)
}

func loadSplit(ctx context.Context, q queryer, splitID string) (*models.BillSplit, error) {
	split, err := scanSplit(q.QueryRowContext(ctx,
		`SELECT `+splitColumns+` FROM bill_splits WHERE id = ? AND deleted_at IS NULL`,
		splitID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("split", splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	if err := attachParticipants(ctx, q, []*models.BillSplit{split}); err != nil {
		return nil, err
	}
	return split, nil
}

// ListSplitsForUser returns live splits created by userID or shared with them, newest first.
func (s *SQLiteStore) ListSplitsForUser(ctx context.Context, userID string) ([]*models.BillSplit, error) {
	return s.listSplits(ctx,
		`SELECT `+splitColumns+` FROM bill_splits
		 WHERE deleted_at IS NULL
		   AND (created_by = ? OR id IN (SELECT split_id FROM split_participants WHERE user_id = ?))
		 ORDER BY bill_date DESC, created_at DESC`,
		userID, userID,
	)
}

// ListSplitsByGroup returns the live splits attached to a group, newest first.
func (s *SQLiteStore) ListSplitsByGroup(ctx context.Context, groupID string) ([]*models.BillSplit, error) {
	return s.listSplits(ctx,
		`SELECT `+splitColumns+` FROM bill_splits
		 WHERE deleted_at IS NULL AND group_id = ?
		 ORDER BY bill_date DESC, created_at DESC`,
		groupID,
	)
}

func (s *SQLiteStore) listSplits(ctx context.Context, query string, args ...any) ([]*models.BillSplit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}

	var splits []*models.BillSplit
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	if err := attachParticipants(ctx, s.db, splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// attachParticipants loads the shares of every split in one query.
func attachParticipants(ctx context.Context, q queryer, splits []*models.BillSplit) error {
	if len(splits) == 0 {
		return nil
	}

	byID := make(map[string]*models.BillSplit, len(splits))
	args := make([]any, len(splits))
	for i, split := range splits {
		byID[split.ID] = split
		args[i] = split.ID
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, split_id, user_id, owed_cents, paid_cents, status, COALESCE(paid_at, 0)
		 FROM split_participants
		 WHERE split_id IN (?`+repeatPlaceholder(len(splits)-1)+`)
		 ORDER BY split_id, rowid`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.SplitParticipant
		var status string
		var owed, paid int64
		if err := rows.Scan(&p.ID, &p.SplitID, &p.UserID, &owed, &paid, &status, &p.PaidAt); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		p.AmountOwed = fromCents(owed)
		p.AmountPaid = fromCents(paid)
		p.Status = models.ParticipantStatus(status)
		split := byID[p.SplitID]
		split.Participants = append(split.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

// UpdateSplit loads a split inside a transaction, lets mutate change its
// shares and status, then writes the shares, the split status and the
// settlement returned by mutate. Nothing is written when mutate fails.
func (s *SQLiteStore) UpdateSplit(ctx context.Context, splitID string, mutate storage.SplitMutation) (*models.BillSplit, error) {
	var split *models.BillSplit
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		split, err = loadSplit(ctx, tx, splitID)
		if err != nil {
			return err
		}

		settlement, err := mutate(split)
		if err != nil {
			return err
		}

		for _, p := range split.Participants {
			_, err = tx.ExecContext(ctx,
				`UPDATE split_participants SET paid_cents = ?, status = ?, paid_at = ? WHERE id = ?`,
				toCents(p.AmountPaid), p.Status, nullInt(p.PaidAt), p.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to update participant: %w", err)
			}
		}

		if split.Status == models.SplitSettled && split.SettledAt == 0 {
			split.SettledAt = s.now().Unix()
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE bill_splits SET status = ?, settled_at = ? WHERE id = ?`,
			split.Status, nullInt(split.SettledAt), split.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update split status: %w", err)
		}

		if settlement != nil {
			settlement.SplitID = split.ID
			if err := s.insertSettlement(ctx, tx, settlement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return split, nil
}

// DeleteSplit soft-deletes a split.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_splits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		s.now().Unix(), splitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	return checkAffected(res, "split", splitID)
}

func scanSplit(row scanner) (*models.BillSplit, error) {
	split := &models.BillSplit{}
	var splitType, status string
	var total int64
	err := row.Scan(&split.ID, &split.CreatedBy, &split.GroupID, &split.Description, &total,
		&splitType, &status, &split.BillDate, &split.CreatedAt, &split.SettledAt)
	if err != nil {
		return nil, err
	}
	split.TotalAmount = fromCents(total)
	split.SplitType = models.SplitType(splitType)
	split.Status = models.SplitStatus(status)
	return split, nil
}
