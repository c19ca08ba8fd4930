package models

import "github.com/shopspring/decimal"

// Settlement records one payment made toward a participant's share.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// SplitID is the bill the payment belongs to.
	SplitID string

	// ParticipantID is the share the payment is applied to.
	ParticipantID string

	// PayerID is the user who paid (the share's owner).
	PayerID string

	// RecordedBy is the user who recorded the payment. It differs from
	// PayerID when the creator settles a share on the payer's behalf.
	RecordedBy string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Method is an optional payment method (cash, bank transfer, ...).
	Method string

	// Note is an optional description for the payment.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
