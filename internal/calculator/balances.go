package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SplitForBalance represents a split with the minimal information needed for balance calculations.
type SplitForBalance struct {
	CreatedBy   string
	TotalAmount decimal.Decimal
	Shares      []ShareForBalance
}

// ShareForBalance is one participant's position in a split.
type ShareForBalance struct {
	UserID     string
	AmountOwed decimal.Decimal
	AmountPaid decimal.Decimal
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Bills fronted plus payments made
	TotalOwed  decimal.Decimal // Shares owed plus payments received
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateGroupBalances computes balances across a group's splits.
//
// Algorithm:
//   - For each split: creator contributed +total, each participant owes their share
//   - For each payment on a share: payer's balance improves, creator's balance decreases
//   - Aggregate: net_balance = total_paid - total_owed
//   - Debts: simplified using greedy matching, largest first
//
// Balances are returned sorted by user id.
func CalculateGroupBalances(splits []SplitForBalance) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	get := func(userID string) *MemberBalance {
		b, ok := balances[userID]
		if !ok {
			b = &MemberBalance{UserID: userID}
			balances[userID] = b
		}
		return b
	}

	for _, s := range splits {
		if s.CreatedBy == "" {
			continue
		}
		creator := get(s.CreatedBy)
		creator.TotalPaid = creator.TotalPaid.Add(s.TotalAmount)

		for _, share := range s.Shares {
			member := get(share.UserID)
			member.TotalOwed = member.TotalOwed.Add(share.AmountOwed)
			if share.AmountPaid.IsPositive() {
				member.TotalPaid = member.TotalPaid.Add(share.AmountPaid)
				creator.TotalOwed = creator.TotalOwed.Add(share.AmountPaid)
			}
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.TotalPaid = RoundCents(bal.TotalPaid)
		bal.TotalOwed = RoundCents(bal.TotalOwed)
		bal.NetBalance = RoundCents(bal.TotalPaid.Sub(bal.TotalOwed))
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].UserID < memberBalances[j].UserID
	})

	return memberBalances, SimplifyDebts(memberBalances)
}

// SimplifyDebts matches debtors with creditors to minimize the number of
// payments. Balances are rounded to cents before matching.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type position struct {
		userID string
		amount decimal.Decimal
	}

	var creditors, debtors []position
	for _, bal := range balances {
		net := RoundCents(bal.NetBalance)
		if net.IsPositive() {
			creditors = append(creditors, position{bal.UserID, net})
		} else if net.IsNegative() {
			debtors = append(debtors, position{bal.UserID, net.Neg()})
		}
	}

	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if c := p[i].amount.Cmp(p[j].amount); c != 0 {
				return c > 0
			}
			return p[i].userID < p[j].userID
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	// Greedy algorithm: match largest debts with largest credits
	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)

		edges = append(edges, DebtEdge{
			From:   debtors[i].userID,
			To:     creditors[j].userID,
			Amount: amount,
		})

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)
		if debtors[i].amount.IsZero() {
			i++
		}
		if creditors[j].amount.IsZero() {
			j++
		}
	}

	return edges
}
