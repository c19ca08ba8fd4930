package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// AddComment persists a comment on a split.
func (s *SQLiteStore) AddComment(ctx context.Context, comment *models.SplitComment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt == 0 {
		comment.CreatedAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO split_comments (id, split_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.SplitID, comment.UserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListComments returns a split's comments, oldest first.
func (s *SQLiteStore) ListComments(ctx context.Context, splitID string) ([]*models.SplitComment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, split_id, user_id, content, created_at FROM split_comments
		 WHERE split_id = ? ORDER BY created_at, rowid`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.SplitComment
	for rows.Next() {
		c := &models.SplitComment{}
		if err := rows.Scan(&c.ID, &c.SplitID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

// CreateReminder records that a payment reminder was sent.
func (s *SQLiteStore) CreateReminder(ctx context.Context, reminder *models.PaymentReminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	if reminder.CreatedAt == 0 {
		reminder.CreatedAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_reminders (id, participant_id, split_id, sent_by, sent_to, reminder_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.ParticipantID, reminder.SplitID, reminder.SentBy, reminder.SentTo,
		reminder.ReminderType, reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}
