package models

import "github.com/shopspring/decimal"

// SplitType decides how a bill total is divided.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// SplitStatus is the settlement state of a whole bill.
type SplitStatus string

const (
	SplitPending SplitStatus = "pending"
	SplitPartial SplitStatus = "partial"
	SplitSettled SplitStatus = "settled"
)

var splitTransitions = map[SplitStatus][]SplitStatus{
	SplitPending: {SplitPending, SplitPartial, SplitSettled},
	SplitPartial: {SplitPartial, SplitSettled},
	SplitSettled: {SplitSettled},
}

// CanTransition reports whether a split may move from s to next.
func (s SplitStatus) CanTransition(next SplitStatus) bool {
	for _, allowed := range splitTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParticipantStatus is the payment state of one share.
type ParticipantStatus string

const (
	ParticipantPending ParticipantStatus = "pending"
	ParticipantPartial ParticipantStatus = "partial"
	ParticipantPaid    ParticipantStatus = "paid"
)

var participantTransitions = map[ParticipantStatus][]ParticipantStatus{
	ParticipantPending: {ParticipantPartial, ParticipantPaid},
	ParticipantPartial: {ParticipantPartial, ParticipantPaid},
	ParticipantPaid:    {},
}

// CanTransition reports whether a share may move from s to next.
// Paid is terminal.
func (s ParticipantStatus) CanTransition(next ParticipantStatus) bool {
	for _, allowed := range participantTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BillSplit represents a bill divided among participants.
type BillSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// CreatedBy is the user who paid the bill and created the split.
	CreatedBy string

	// GroupID optionally ties the split to a group.
	GroupID string

	// Description is the human-readable label for the bill.
	Description string

	// TotalAmount is the full bill amount.
	TotalAmount decimal.Decimal

	// SplitType records how TotalAmount was divided.
	SplitType SplitType

	// Status is pending until the first payment, partial while any share is
	// outstanding, settled once every share is paid.
	Status SplitStatus

	// BillDate is the Unix timestamp of the bill itself.
	BillDate int64

	// Participants are the shares. The sum of AmountOwed matches TotalAmount
	// within the configured tolerance.
	Participants []SplitParticipant

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64

	// SettledAt is the Unix timestamp when the split became settled.
	SettledAt int64

	// DeletedAt is the Unix timestamp of the soft delete, zero while active.
	DeletedAt int64
}

// SplitParticipant is one user's share of a bill.
type SplitParticipant struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// SplitID is the bill this share belongs to.
	SplitID string

	// UserID is the user who owes the share.
	UserID string

	// AmountOwed is the share of the bill total.
	AmountOwed decimal.Decimal

	// AmountPaid accumulates recorded payments.
	AmountPaid decimal.Decimal

	// Status moves pending -> partial -> paid and never back. A share that
	// owes nothing is created paid.
	Status ParticipantStatus

	// PaidAt is the Unix timestamp when the share became paid.
	PaidAt int64
}

// Participant returns the share owned by userID, if any.
func (b *BillSplit) Participant(userID string) (*SplitParticipant, bool) {
	for i := range b.Participants {
		if b.Participants[i].UserID == userID {
			return &b.Participants[i], true
		}
	}
	return nil, false
}

// IsVisibleTo reports whether userID created the split or holds a share in it.
func (b *BillSplit) IsVisibleTo(userID string) bool {
	if b.CreatedBy == userID {
		return true
	}
	_, ok := b.Participant(userID)
	return ok
}

// SplitComment is a message left on a split.
type SplitComment struct {
	ID        string
	SplitID   string
	UserID    string
	Content   string
	CreatedAt int64
}

// ReminderType sets the tone of a payment reminder.
type ReminderType string

const (
	ReminderPolite ReminderType = "polite"
	ReminderUrgent ReminderType = "urgent"
)

// PaymentReminder records a reminder sent to a participant.
type PaymentReminder struct {
	ID            string
	ParticipantID string
	SplitID       string
	SentBy        string
	SentTo        string
	ReminderType  ReminderType
	CreatedAt     int64
}
