// Package notify publishes budget alerts and payment reminders to a message broker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// Event kinds.
const (
	KindBudgetAlert     = "budget_alert"
	KindPaymentReminder = "payment_reminder"
	KindSplitSettled    = "split_settled"
)

// Event is one notification for a user. Payload is encoded as JSON.
type Event struct {
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// BudgetAlertPayload is the body of a budget alert event. Amounts are
// encoded as decimal strings.
type BudgetAlertPayload struct {
	Type     models.AlertType     `json:"type"`
	BudgetID string               `json:"budget_id"`
	Category string               `json:"category"`
	Message  string               `json:"message"`
	Severity models.AlertSeverity `json:"severity"`
	Amount   decimal.Decimal      `json:"amount"`
}

// NewBudgetAlertEvent wraps an alert for its budget owner.
func NewBudgetAlertEvent(userID string, alert models.Alert, at time.Time) Event {
	return Event{
		Kind:       KindBudgetAlert,
		UserID:     userID,
		OccurredAt: at,
		Payload: BudgetAlertPayload{
			Type:     alert.Type,
			BudgetID: alert.BudgetID,
			Category: alert.Category,
			Message:  alert.Message,
			Severity: alert.Severity,
			Amount:   alert.Amount,
		},
	}
}

// ReminderPayload is the body of a payment reminder event.
type ReminderPayload struct {
	ReminderID   string              `json:"reminder_id"`
	SplitID      string              `json:"split_id"`
	Description  string              `json:"description"`
	SentBy       string              `json:"sent_by"`
	ReminderType models.ReminderType `json:"reminder_type"`
	Outstanding  decimal.Decimal     `json:"outstanding"`
	Message      string              `json:"message"`
}

// NewReminderEvent addresses a payment reminder to the participant who owes money.
func NewReminderEvent(reminder *models.PaymentReminder, description string, outstanding decimal.Decimal, at time.Time) Event {
	message := fmt.Sprintf("Friendly reminder: you owe $%s for %q", outstanding.StringFixed(2), description)
	if reminder.ReminderType == models.ReminderUrgent {
		message = fmt.Sprintf("Payment overdue: please settle $%s for %q", outstanding.StringFixed(2), description)
	}

	return Event{
		Kind:       KindPaymentReminder,
		UserID:     reminder.SentTo,
		OccurredAt: at,
		Payload: ReminderPayload{
			ReminderID:   reminder.ID,
			SplitID:      reminder.SplitID,
			Description:  description,
			SentBy:       reminder.SentBy,
			ReminderType: reminder.ReminderType,
			Outstanding:  outstanding,
			Message:      message,
		},
	}
}

// NewSplitSettledEvent tells the creator that every share has been paid.
func NewSplitSettledEvent(split *models.BillSplit, at time.Time) Event {
	return Event{
		Kind:       KindSplitSettled,
		UserID:     split.CreatedBy,
		OccurredAt: at,
		Payload: map[string]any{
			"split_id":     split.ID,
			"description":  split.Description,
			"total_amount": split.TotalAmount,
		},
	}
}

// Encode renders an event as the JSON message body.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return body, nil
}

// LogPublisher writes events to the default logger. It is used when no broker
// is configured.
type LogPublisher struct{}

// Publish logs the event.
func (LogPublisher) Publish(ctx context.Context, event Event) error {
	slog.InfoContext(ctx, "Notification",
		"kind", event.Kind,
		"user_id", event.UserID,
		"payload", event.Payload,
	)
	return nil
}

// Close does nothing.
func (LogPublisher) Close() error { return nil }
