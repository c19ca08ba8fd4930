package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// ShareRequest is one participant of a split as submitted by the creator.
// AmountOwed is ignored for equal splits.
type ShareRequest struct {
	UserID     string
	AmountOwed decimal.Decimal
}

// Share is an allocated participant share.
type Share struct {
	UserID     string
	AmountOwed decimal.Decimal
	Status     models.ParticipantStatus
}

// AllocateSplit divides total among participants according to splitType.
//
// Equal splits truncate the per-person amount to cents and the last
// participant absorbs the remainder, so the shares always add up to total
// exactly. Percentage and custom splits take the submitted amounts and are
// rejected when their sum differs from total by more than tolerance.
//
// A share that owes nothing starts out paid, so a split is settled exactly
// when every share is paid.
func AllocateSplit(total decimal.Decimal, splitType models.SplitType, participants []ShareRequest, tolerance decimal.Decimal) ([]Share, error) {
	total = RoundCents(total)
	if total.LessThan(oneCent) {
		return nil, apperr.Validation("total amount must be at least 0.01")
	}
	if !splitType.Valid() {
		return nil, apperr.Validation("invalid split type: %q", splitType)
	}
	if len(participants) == 0 {
		return nil, apperr.Validation("split must have at least one participant")
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.UserID == "" {
			return nil, apperr.Validation("participant user id is required")
		}
		if seen[p.UserID] {
			return nil, apperr.Validation("duplicate participant: %s", p.UserID)
		}
		seen[p.UserID] = true
	}

	shares := make([]Share, len(participants))
	if splitType == models.SplitEqual {
		amounts := AllocateEqual(total, len(participants))
		for i, p := range participants {
			shares[i] = newShare(p.UserID, amounts[i])
		}
		return shares, nil
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.AmountOwed.IsNegative() {
			return nil, apperr.Validation("amount owed by %s must not be negative", p.UserID)
		}
		sum = sum.Add(p.AmountOwed)
	}
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return nil, apperr.Validation("participant amounts sum to %s, expected %s",
			sum.StringFixed(centPlaces), total.StringFixed(centPlaces))
	}

	owing := false
	for i, p := range participants {
		shares[i] = newShare(p.UserID, RoundCents(p.AmountOwed))
		owing = owing || shares[i].AmountOwed.IsPositive()
	}
	if !owing {
		return nil, apperr.Validation("at least one participant must owe a positive amount")
	}
	return shares, nil
}

func newShare(userID string, owed decimal.Decimal) Share {
	status := models.ParticipantPending
	if owed.IsZero() {
		status = models.ParticipantPaid
	}
	return Share{UserID: userID, AmountOwed: owed, Status: status}
}

// AllocateEqual splits total into n amounts that sum to total to the cent.
func AllocateEqual(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	total = RoundCents(total)
	per := total.Div(decimal.NewFromInt(int64(n))).Truncate(centPlaces)

	amounts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		amounts[i] = per
	}
	amounts[n-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	return amounts
}

// ApplyPayment returns p with amount added to what has been paid.
// The amount is rounded to cents and must come to at least one cent.
// The share becomes paid, with PaidAt set to now, once the paid amount reaches
// the owed amount; until then it is partial. Overpayment is accepted.
func ApplyPayment(p models.SplitParticipant, amount decimal.Decimal, now int64) (models.SplitParticipant, error) {
	amount = RoundCents(amount)
	if amount.LessThan(oneCent) {
		return p, apperr.Validation("payment amount must be at least 0.01")
	}
	if p.Status == models.ParticipantPaid {
		return p, apperr.Validation("share is already paid")
	}

	paid := p.AmountPaid.Add(amount)
	next := models.ParticipantPartial
	if paid.GreaterThanOrEqual(p.AmountOwed) {
		next = models.ParticipantPaid
	}
	if !p.Status.CanTransition(next) {
		return p, apperr.Validation("share cannot move from %s to %s", p.Status, next)
	}

	p.AmountPaid = paid
	p.Status = next
	if next == models.ParticipantPaid {
		p.PaidAt = now
	}
	return p, nil
}

// Outstanding is what is still owed on a share, never negative.
func Outstanding(p models.SplitParticipant) decimal.Decimal {
	rest := p.AmountOwed.Sub(p.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// SplitStatusFor recomputes a split's status from its participants.
// A split is settled when every share is paid and partial once any share has
// received money; otherwise it keeps current. A transition the state machine
// forbids keeps current.
func SplitStatusFor(current models.SplitStatus, participants []models.SplitParticipant) models.SplitStatus {
	if len(participants) == 0 {
		return current
	}

	allPaid, anyPaid := true, false
	for _, p := range participants {
		if p.Status != models.ParticipantPaid {
			allPaid = false
		}
		if p.AmountPaid.IsPositive() {
			anyPaid = true
		}
	}

	next := current
	switch {
	case allPaid:
		next = models.SplitSettled
	case anyPaid:
		next = models.SplitPartial
	}
	if !current.CanTransition(next) {
		return current
	}
	return next
}
