package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/notify"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// recommendationMonths is the lookback used for budget recommendations,
// including the current month.
const recommendationMonths = 3

// BudgetOptions tunes the BudgetService.
type BudgetOptions struct {
	// DefaultThreshold applies when a budget is created without one.
	DefaultThreshold float64
	// Concurrency bounds how many budgets are evaluated at once.
	Concurrency int
}

// BudgetService implements the BudgetService.
type BudgetService struct {
	store     storage.Store
	opts      BudgetOptions
	publisher notify.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewBudgetService creates a BudgetService. publisher and m may be nil.
func NewBudgetService(store storage.Store, opts BudgetOptions, publisher notify.Publisher, m *metrics.Metrics) *BudgetService {
	if opts.DefaultThreshold <= 0 {
		opts.DefaultThreshold = 80
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if publisher == nil {
		publisher = notify.LogPublisher{}
	}
	return &BudgetService{
		store:     store,
		opts:      opts,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

func validateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 100 {
		return apperr.Validation("alert threshold must be between 0 and 100")
	}
	return nil
}

// validateBudget checks the fields of a budget about to be written.
func validateBudget(b *models.Budget) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperr.Validation("budget name is required")
	}
	if !b.Amount.IsPositive() {
		return apperr.Validation("budget amount must be positive")
	}
	if !b.Period.Valid() {
		return apperr.Validation("invalid budget period: %q", b.Period)
	}
	if err := validateThreshold(b.AlertThreshold); err != nil {
		return err
	}
	if !b.EndDate.After(b.StartDate) {
		return apperr.Validation("budget end date must be after its start date")
	}
	return nil
}

// checkCategory resolves the budget's category, which must exist and be visible.
func (s *BudgetService) checkCategory(ctx context.Context, b *models.Budget) error {
	category, err := s.store.GetCategory(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return err
	}
	if category.Kind != models.KindExpense {
		return apperr.Validation("budgets can only track expense categories")
	}
	b.CategoryName = category.Name
	b.CategoryColor = category.Color
	return nil
}

// checkDuplicate rejects a second active budget for the same category and period.
func (s *BudgetService) checkDuplicate(ctx context.Context, b *models.Budget) error {
	exists, err := s.store.ActiveBudgetExists(ctx, b.UserID, b.CategoryID, b.Period, b.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Validation("an active %s budget already exists for this category", b.Period)
	}
	return nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

// CreateBudget creates a budget. Without explicit dates the period that
// contains today is used.
func (s *BudgetService) CreateBudget(ctx context.Context, req *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	period := models.PeriodType(msg.Period)
	if period == "" {
		period = models.PeriodMonthly
	}
	if (msg.StartDate == nil) != (msg.EndDate == nil) {
		return nil, connectError(apperr.Validation("start and end date must be given together"))
	}
	threshold := s.opts.DefaultThreshold
	if msg.AlertThreshold != nil {
		threshold = *msg.AlertThreshold
	}

	start, end := calculator.BudgetPeriod(period, s.now(), timeOrZero(msg.StartDate), timeOrZero(msg.EndDate))
	budget := &models.Budget{
		UserID:         userID,
		CategoryID:     msg.CategoryID,
		Name:           strings.TrimSpace(msg.Name),
		Amount:         calculator.Money(msg.Amount),
		Period:         period,
		StartDate:      start,
		EndDate:        end,
		AlertThreshold: threshold,
		Rollover:       msg.Rollover,
	}
	if budget.Name == "" {
		budget.Name = string(period) + " budget"
	}

	if err := validateBudget(budget); err != nil {
		return nil, connectError(err)
	}
	if err := s.checkCategory(ctx, budget); err != nil {
		return nil, connectError(err)
	}
	if err := s.checkDuplicate(ctx, budget); err != nil {
		return nil, connectError(err)
	}

	if err := s.store.CreateBudget(ctx, budget); err != nil {
		slog.Error("CreateBudget failed", "user_id", userID, "category_id", budget.CategoryID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Budget created",
		"user_id", userID,
		"budget_id", budget.ID,
		"category_id", budget.CategoryID,
		"period", budget.Period,
		"amount", budget.Amount,
	)
	return connect.NewResponse(&api.CreateBudgetResponse{Budget: toAPIBudget(budget)}), nil
}

// GetBudget returns a budget with its current status.
func (s *BudgetService) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	budget, err := s.store.GetBudget(ctx, userID, req.Msg.BudgetID)
	if err != nil {
		return nil, connectError(err)
	}
	status, err := s.evaluate(ctx, budget, s.now())
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetBudgetResponse{
		Budget: toAPIBudget(budget),
		Status: toAPIBudgetStatus(status),
	}), nil
}

// ListBudgets returns the caller's budgets, optionally only those active today.
func (s *BudgetService) ListBudgets(ctx context.Context, req *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	filter := models.BudgetFilter{
		CategoryID: req.Msg.CategoryID,
		Period:     models.PeriodType(req.Msg.Period),
	}
	if req.Msg.ActiveOnly {
		filter.ActiveAt = s.now()
	}

	budgets, err := s.store.ListBudgets(ctx, userID, filter)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.ListBudgetsResponse{Budgets: make([]*api.Budget, len(budgets))}
	for i, b := range budgets {
		resp.Budgets[i] = toAPIBudget(b)
	}
	return connect.NewResponse(resp), nil
}

// UpdateBudget changes a budget. Moving it to another category or period is
// checked against the one-active-budget rule.
func (s *BudgetService) UpdateBudget(ctx context.Context, req *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	budget, err := s.store.GetBudget(ctx, userID, msg.BudgetID)
	if err != nil {
		return nil, connectError(err)
	}
	category, period := budget.CategoryID, budget.Period

	if msg.CategoryID != nil {
		budget.CategoryID = *msg.CategoryID
	}
	if msg.Name != nil {
		budget.Name = strings.TrimSpace(*msg.Name)
	}
	if msg.Amount != nil {
		budget.Amount = calculator.Money(*msg.Amount)
	}
	if msg.Period != nil {
		budget.Period = models.PeriodType(*msg.Period)
	}
	if msg.AlertThreshold != nil {
		budget.AlertThreshold = *msg.AlertThreshold
	}
	if msg.Rollover != nil {
		budget.Rollover = *msg.Rollover
	}
	switch {
	case msg.StartDate != nil || msg.EndDate != nil:
		if msg.StartDate != nil {
			budget.StartDate = msg.StartDate.UTC()
		}
		if msg.EndDate != nil {
			budget.EndDate = msg.EndDate.UTC()
		}
	case budget.Period != period:
		budget.StartDate, budget.EndDate = calculator.BudgetPeriod(budget.Period, s.now(), time.Time{}, time.Time{})
	}

	if err := validateBudget(budget); err != nil {
		return nil, connectError(err)
	}
	if budget.CategoryID != category {
		if err := s.checkCategory(ctx, budget); err != nil {
			return nil, connectError(err)
		}
	}
	if budget.CategoryID != category || budget.Period != period {
		if err := s.checkDuplicate(ctx, budget); err != nil {
			return nil, connectError(err)
		}
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		slog.Error("UpdateBudget failed", "budget_id", budget.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Budget updated", "user_id", userID, "budget_id", budget.ID)
	return connect.NewResponse(&api.UpdateBudgetResponse{Budget: toAPIBudget(budget)}), nil
}

// DeleteBudget soft-deletes a budget.
func (s *BudgetService) DeleteBudget(ctx context.Context, req *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteBudget(ctx, userID, req.Msg.BudgetID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Budget deleted", "user_id", userID, "budget_id", req.Msg.BudgetID)
	return connect.NewResponse(&api.DeleteBudgetResponse{}), nil
}

// evaluate measures a budget against the spending booked in its period.
func (s *BudgetService) evaluate(ctx context.Context, b *models.Budget, now time.Time) (models.BudgetStatus, error) {
	from, to := calculator.SpendingWindow(b.StartDate, b.EndDate)
	spent, err := s.store.SpentInCategory(ctx, b.UserID, b.CategoryID, from, to)
	if err != nil {
		return models.BudgetStatus{}, err
	}
	return calculator.EvaluateBudget(b, spent, now), nil
}

// budgetStatuses evaluates every budget active today. Budgets are evaluated
// concurrently; the result keeps the listing order.
func (s *BudgetService) budgetStatuses(ctx context.Context, userID string) ([]models.BudgetStatus, error) {
	now := s.now()
	budgets, err := s.store.ListBudgets(ctx, userID, models.BudgetFilter{ActiveAt: now})
	if err != nil {
		return nil, err
	}

	statuses := make([]models.BudgetStatus, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, b := range budgets {
		g.Go(func() error {
			status, err := s.evaluate(gctx, b, now)
			if err != nil {
				return err
			}
			statuses[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// GetBudgetStatuses returns the status of every active budget.
func (s *BudgetService) GetBudgetStatuses(ctx context.Context, req *connect.Request[api.GetBudgetStatusesRequest]) (*connect.Response[api.GetBudgetStatusesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.budgetStatuses(ctx, userID)
	if err != nil {
		slog.Error("GetBudgetStatuses failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.GetBudgetStatusesResponse{Statuses: make([]*api.BudgetStatus, len(statuses))}
	for i, st := range statuses {
		resp.Statuses[i] = toAPIBudgetStatus(st)
	}
	return connect.NewResponse(resp), nil
}

// CheckBudgetAlerts derives alerts from the active budgets and publishes each
// one as a notification. Publishing failures are logged, not returned.
func (s *BudgetService) CheckBudgetAlerts(ctx context.Context, req *connect.Request[api.CheckBudgetAlertsRequest]) (*connect.Response[api.CheckBudgetAlertsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.budgetStatuses(ctx, userID)
	if err != nil {
		slog.Error("CheckBudgetAlerts failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	alerts := calculator.GenerateAlerts(statuses)
	s.metrics.AlertsGenerated(alerts)

	now := s.now()
	resp := &api.CheckBudgetAlertsResponse{Alerts: make([]*api.Alert, len(alerts))}
	for i, alert := range alerts {
		resp.Alerts[i] = toAPIAlert(alert)

		err := s.publisher.Publish(ctx, notify.NewBudgetAlertEvent(userID, alert, now))
		s.metrics.NotificationPublished(notify.KindBudgetAlert, err)
		if err != nil {
			slog.Warn("Failed to publish budget alert", "user_id", userID, "budget_id", alert.BudgetID, "error", err)
		}
	}

	slog.Info("Budget alerts checked", "user_id", userID, "budgets", len(statuses), "alerts", len(alerts))
	return connect.NewResponse(resp), nil
}

// GetBudgetRecommendations suggests monthly limits from recent spending.
func (s *BudgetService) GetBudgetRecommendations(ctx context.Context, req *connect.Request[api.GetBudgetRecommendationsRequest]) (*connect.Response[api.GetBudgetRecommendationsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month()-(recommendationMonths-1), 1, 0, 0, 0, 0, time.UTC)
	months, err := s.store.MonthlyCategorySpending(ctx, userID, since)
	if err != nil {
		return nil, connectError(err)
	}

	var spending []calculator.CategorySpending
	index := make(map[string]int)
	for _, m := range months {
		i, ok := index[m.CategoryID]
		if !ok {
			i = len(spending)
			index[m.CategoryID] = i
			spending = append(spending, calculator.CategorySpending{CategoryID: m.CategoryID, Category: m.Category})
		}
		spending[i].MonthlyTotals = append(spending[i].MonthlyTotals, m.Total)
	}

	recs := calculator.RecommendBudgets(spending)
	resp := &api.GetBudgetRecommendationsResponse{Recommendations: make([]*api.BudgetRecommendation, len(recs))}
	for i, r := range recs {
		resp.Recommendations[i] = &api.BudgetRecommendation{
			CategoryID:        r.CategoryID,
			Category:          r.Category,
			CurrentSpending:   toFloat(r.CurrentSpending),
			RecommendedBudget: toFloat(r.RecommendedBudget),
			Reason:            r.Reason,
			Confidence:        r.Confidence,
		}
	}
	return connect.NewResponse(resp), nil
}
