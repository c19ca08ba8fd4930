package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/calculator"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/storage"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
)

// maxTopMerchants caps the merchant ranking a client may ask for.
const maxTopMerchants = 50

// AnalyticsService implements the AnalyticsService: dashboards and reports
// computed from the caller's ledger. It never writes.
type AnalyticsService struct {
	store storage.Store
	now   func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now}
}

// transactionsSince loads every live transaction of userID dated from start
// on, or up to end when end is non-zero.
func (s *AnalyticsService) transactionsSince(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	txns, _, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}
	return txnValues(txns), nil
}

func txnValues(txns []*models.Transaction) []models.Transaction {
	values := make([]models.Transaction, len(txns))
	for i, t := range txns {
		values[i] = *t
	}
	return values
}

// currentMonthRange resolves an optional date range, defaulting to the start
// of the current month up to now.
func (s *AnalyticsService) currentMonthRange(r api.DateRange) (time.Time, time.Time, error) {
	start, end, err := dateBounds(r)
	if err != nil {
		return start, end, err
	}
	if start.IsZero() {
		start, _ = calculator.MonthBounds(s.now())
	}
	if end.IsZero() {
		end = s.now().UTC()
	}
	if end.Before(start) {
		return start, end, apperr.Validation("end date is before start date")
	}
	return start, end, nil
}

// GetOverview compares this month's income, expenses and savings with last month's.
func (s *AnalyticsService) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, _ := calculator.MonthBounds(now)
	prevStart, _ := calculator.MonthBounds(start.Add(-time.Second))

	txns, err := s.transactionsSince(ctx, userID, prevStart, time.Time{})
	if err != nil {
		slog.Error("GetOverview failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	o := calculator.AnalyticsOverview(txns, now)
	return connect.NewResponse(&api.GetOverviewResponse{
		PeriodStart: o.PeriodStart,
		PeriodEnd:   o.PeriodEnd,
		Income:      toAPIMetric(o.Income),
		Expenses:    toAPIMetric(o.Expenses),
		Savings:     toAPIMetric(o.Savings),
	}), nil
}

// GetSpendingTrends buckets income and expenses by day or month.
func (s *AnalyticsService) GetSpendingTrends(ctx context.Context, req *connect.Request[api.GetSpendingTrendsRequest]) (*connect.Response[api.GetSpendingTrendsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	period := calculator.TrendMonth
	if req.Msg.Period != "" {
		period = calculator.TrendPeriod(req.Msg.Period)
	}
	if !period.Valid() {
		return nil, connectError(apperr.Validation("invalid trend period: %q", req.Msg.Period))
	}

	now := s.now()
	txns, err := s.transactionsSince(ctx, userID, calculator.TrendWindow(period, now), time.Time{})
	if err != nil {
		return nil, connectError(err)
	}

	buckets := calculator.SpendingTrends(txns, period, now)
	resp := &api.GetSpendingTrendsResponse{Period: string(period), Points: make([]*api.TrendPoint, len(buckets))}
	for i, b := range buckets {
		resp.Points[i] = &api.TrendPoint{
			Name:     b.Label,
			Start:    b.Start,
			Income:   toFloat(b.Income),
			Expenses: toFloat(b.Expenses),
		}
	}
	return connect.NewResponse(resp), nil
}

// GetCategoryBreakdown totals spending per category, largest first.
func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, req *connect.Request[api.GetCategoryBreakdownRequest]) (*connect.Response[api.GetCategoryBreakdownResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	start, end, err := s.currentMonthRange(req.Msg.Dates)
	if err != nil {
		return nil, connectError(err)
	}

	var txns []models.Transaction
	var categories []*models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.transactionsSince(gctx, userID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, connectError(err)
	}

	byID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	slices := calculator.CategoryBreakdown(txns, byID)

	resp := &api.GetCategoryBreakdownResponse{Categories: make([]*api.CategorySlice, len(slices))}
	for i, c := range slices {
		resp.Categories[i] = &api.CategorySlice{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Color:      c.Color,
			Value:      toFloat(c.Amount),
			Count:      c.Count,
		}
	}
	return connect.NewResponse(resp), nil
}

// GetTopMerchants ranks merchants by spending.
func (s *AnalyticsService) GetTopMerchants(ctx context.Context, req *connect.Request[api.GetTopMerchantsRequest]) (*connect.Response[api.GetTopMerchantsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = calculator.DefaultTopMerchants
	}
	if limit < 0 || limit > maxTopMerchants {
		return nil, connectError(apperr.Validation("limit must be between 1 and %d", maxTopMerchants))
	}

	start, end, err := s.currentMonthRange(req.Msg.Dates)
	if err != nil {
		return nil, connectError(err)
	}
	txns, err := s.transactionsSince(ctx, userID, start, end)
	if err != nil {
		return nil, connectError(err)
	}

	merchants := calculator.TopMerchants(txns, limit)
	resp := &api.GetTopMerchantsResponse{Merchants: make([]*api.MerchantTotal, len(merchants))}
	for i, m := range merchants {
		resp.Merchants[i] = &api.MerchantTotal{Name: m.Name, Amount: toFloat(m.Amount), Count: m.Count}
	}
	return connect.NewResponse(resp), nil
}

// GetMonthlyReport builds a month's statement with opening and closing
// balances across all of the caller's accounts.
func (s *AnalyticsService) GetMonthlyReport(ctx context.Context, req *connect.Request[api.GetMonthlyReportRequest]) (*connect.Response[api.GetMonthlyReportResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ref := s.now()
	if req.Msg.Month != nil {
		ref = *req.Msg.Month
	}
	start, _ := calculator.MonthBounds(ref)

	var txns []models.Transaction
	var accounts []*models.Account
	var categories []*models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.transactionsSince(gctx, userID, start, time.Time{})
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("GetMonthlyReport failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	balance := decimal.Zero
	for _, a := range accounts {
		balance = balance.Add(a.Balance)
	}
	report := calculator.BuildMonthlyReport(txns, balance, ref, categoryNames(categories))

	resp := &api.GetMonthlyReportResponse{
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		Summary: &api.ReportSummary{
			OpeningBalance: toFloat(report.OpeningBalance),
			Income:         toFloat(report.Income),
			Expenses:       toFloat(report.Expenses),
			NetFlow:        toFloat(report.NetFlow),
			ClosingBalance: toFloat(report.ClosingBalance),
		},
		ByCategory:   toAPINamedAmounts(report.ByCategory),
		Transactions: toAPIReportLines(report.Lines),
	}
	slog.Info("Monthly report generated", "user_id", userID, "period_start", report.PeriodStart, "transactions", len(report.Lines))
	return connect.NewResponse(resp), nil
}

// GetSpendingReport summarizes spending over an explicit date range.
func (s *AnalyticsService) GetSpendingReport(ctx context.Context, req *connect.Request[api.GetSpendingReportRequest]) (*connect.Response[api.GetSpendingReportResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	start, end, err := dateBounds(req.Msg.Dates)
	if err != nil {
		return nil, connectError(err)
	}
	if start.IsZero() || end.IsZero() {
		return nil, connectError(apperr.Validation("start and end dates are required"))
	}

	var txns []models.Transaction
	var categories []*models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = s.transactionsSince(gctx, userID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, connectError(err)
	}

	report := calculator.BuildSpendingReport(txns, start, end, categoryNames(categories))
	merchants := make([]calculator.NamedAmount, len(report.TopMerchants))
	for i, m := range report.TopMerchants {
		merchants[i] = calculator.NamedAmount{Name: m.Name, Amount: m.Amount}
	}

	return connect.NewResponse(&api.GetSpendingReportResponse{
		PeriodStart:      report.PeriodStart,
		PeriodEnd:        report.PeriodEnd,
		TotalSpending:    toFloat(report.Total),
		TransactionCount: report.Count,
		TopMerchants:     toAPINamedAmounts(merchants),
		Transactions:     toAPIReportLines(report.Lines),
	}), nil
}

func categoryNames(categories []*models.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func toAPIMetric(m calculator.Metric) *api.Metric {
	return &api.Metric{Total: toFloat(m.Total), Change: m.Change}
}

func toAPINamedAmounts(amounts []calculator.NamedAmount) []*api.NamedAmount {
	out := make([]*api.NamedAmount, len(amounts))
	for i, a := range amounts {
		out[i] = &api.NamedAmount{Name: a.Name, Amount: toFloat(a.Amount)}
	}
	return out
}

func toAPIReportLines(lines []calculator.ReportLine) []*api.ReportLine {
	out := make([]*api.ReportLine, len(lines))
	for i, l := range lines {
		out[i] = &api.ReportLine{
			Date:     l.Date,
			Merchant: l.Merchant,
			Category: l.Category,
			Amount:   toFloat(l.Amount),
			Type:     string(l.Kind),
		}
	}
	return out
}
