package service

import (
	"github.com/shopspring/decimal"

	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// toFloat renders an amount as a JSON number. Amounts are already rounded to
// cents, so the conversion is exact to the cent.
func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIAccount(a *models.Account) *api.Account {
	return &api.Account{
		ID:             a.ID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		Institution:    a.Institution,
		Currency:       a.Currency,
		OpeningBalance: toFloat(a.OpeningBalance),
		Balance:        toFloat(a.Balance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{
		ID:       c.ID,
		Name:     c.Name,
		Kind:     string(c.Kind),
		Color:    c.Color,
		IsSystem: c.IsSystem,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:              t.ID,
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Kind:            string(t.Kind),
		Amount:          toFloat(t.Amount),
		Merchant:        t.Merchant,
		Description:     t.Description,
		Currency:        t.Currency,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toAPIBudget(b *models.Budget) *api.Budget {
	return &api.Budget{
		ID:             b.ID,
		CategoryID:     b.CategoryID,
		CategoryName:   b.CategoryName,
		Name:           b.Name,
		Amount:         toFloat(b.Amount),
		Period:         string(b.Period),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		AlertThreshold: b.AlertThreshold,
		Rollover:       b.Rollover,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toAPIBudgetStatus(s models.BudgetStatus) *api.BudgetStatus {
	return &api.BudgetStatus{
		BudgetID:          s.BudgetID,
		CategoryID:        s.CategoryID,
		CategoryName:      s.CategoryName,
		Period:            string(s.Period),
		Limit:             toFloat(s.Limit),
		Spent:             toFloat(s.Spent),
		Remaining:         toFloat(s.Remaining),
		Percentage:        s.Percentage,
		Status:            string(s.Status),
		DaysLeft:          s.DaysLeft,
		ProjectedSpending: toFloat(s.ProjectedSpending),
		OnTrack:           s.OnTrack,
	}
}

func toAPIAlert(a models.Alert) *api.Alert {
	return &api.Alert{
		Type:     string(a.Type),
		BudgetID: a.BudgetID,
		Category: a.Category,
		Message:  a.Message,
		Severity: string(a.Severity),
		Amount:   toFloat(a.Amount),
	}
}

func toAPIParticipant(p *models.SplitParticipant, names map[string]*models.User) *api.Participant {
	out := &api.Participant{
		ID:          p.ID,
		UserID:      p.UserID,
		AmountOwed:  toFloat(p.AmountOwed),
		AmountPaid:  toFloat(p.AmountPaid),
		Outstanding: toFloat(calculator.Outstanding(*p)),
		Status:      string(p.Status),
		PaidAt:      p.PaidAt,
	}
	if u, ok := names[p.UserID]; ok {
		out.DisplayName = u.DisplayName
	}
	return out
}

// toAPISplit converts a split. names may be nil.
func toAPISplit(s *models.BillSplit, names map[string]*models.User) *api.Split {
	participants := make([]*api.Participant, len(s.Participants))
	for i := range s.Participants {
		participants[i] = toAPIParticipant(&s.Participants[i], names)
	}
	return &api.Split{
		ID:           s.ID,
		CreatedBy:    s.CreatedBy,
		GroupID:      s.GroupID,
		Description:  s.Description,
		TotalAmount:  toFloat(s.TotalAmount),
		SplitType:    string(s.SplitType),
		Status:       string(s.Status),
		BillDate:     s.BillDate,
		Participants: participants,
		CreatedAt:    s.CreatedAt,
		SettledAt:    s.SettledAt,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:            s.ID,
		ParticipantID: s.ParticipantID,
		PayerID:       s.PayerID,
		RecordedBy:    s.RecordedBy,
		Amount:        toFloat(s.Amount),
		Method:        s.Method,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt,
	}
}

func toAPIComment(c *models.SplitComment) *api.Comment {
	return &api.Comment{
		ID:        c.ID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}
