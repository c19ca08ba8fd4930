package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// insertSettlement records a payment against a share.
func (s *SQLiteStore) insertSettlement(ctx context.Context, q queryer, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = s.now().Unix()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO settlements (id, split_id, participant_id, payer_id, recorded_by, amount_cents, method, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.SplitID, settlement.ParticipantID, settlement.PayerID, settlement.RecordedBy,
		toCents(settlement.Amount), settlement.Method, nullString(settlement.Note), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// ListSettlementsBySplit retrieves every payment recorded on a split, oldest first.
func (s *SQLiteStore) ListSettlementsBySplit(ctx context.Context, splitID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, split_id, participant_id, payer_id, recorded_by, amount_cents, method, note, created_at
		 FROM settlements WHERE split_id = ? ORDER BY created_at, rowid`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by split: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var note sql.NullString
		var amount int64

		if err := rows.Scan(&settlement.ID, &settlement.SplitID, &settlement.ParticipantID, &settlement.PayerID,
			&settlement.RecordedBy, &amount, &settlement.Method, &note, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Amount = fromCents(amount)

		if note.Valid {
			settlement.Note = note.String
		}

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
