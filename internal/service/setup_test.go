package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/middleware"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/internal/notify"
	"github.com/amar-295/student-finance-db-sub001/internal/storage/sqlite"
	"github.com/amar-295/student-finance-db-sub001/pkg/api/apiconnect"
)

const (
	testUserHeader = "X-Test-User"

	foodDining = "sys-food-dining"
	groceries  = "sys-groceries"
	salary     = "sys-salary"
	transfer   = "sys-transfer"
)

// testNow is the fixed clock used by the services under test.
var testNow = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

// testAuthInterceptor returns a Connect interceptor that takes the caller's
// user ID from a test header instead of a bearer token.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUserID(ctx, userID)
			}
			return next(ctx, req)
		}
	}
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.events))
	for i, e := range p.events {
		kinds[i] = e.Kind
	}
	return kinds
}

type testEnv struct {
	store     *sqlite.SQLiteStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics

	accounts     apiconnect.AccountServiceClient
	transactions apiconnect.TransactionServiceClient
	budgets      apiconnect.BudgetServiceClient
	splits       apiconnect.SplitServiceClient
	groups       apiconnect.GroupServiceClient
	analytics    apiconnect.AnalyticsServiceClient
}

// setupTestServer serves every data service over httptest against a temp
// SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	env := &testEnv{store: store, publisher: &recordingPublisher{}, metrics: metrics.New()}
	interceptors := connect.WithInterceptors(testAuthInterceptor())

	transactionSvc := NewTransactionService(store)
	transactionSvc.now = func() time.Time { return testNow }
	budgetSvc := NewBudgetService(store, BudgetOptions{DefaultThreshold: 80, Concurrency: 4}, env.publisher, env.metrics)
	budgetSvc.now = func() time.Time { return testNow }
	splitSvc := NewSplitService(store, 0.05, env.publisher, env.metrics)
	splitSvc.now = func() time.Time { return testNow }
	analyticsSvc := NewAnalyticsService(store)
	analyticsSvc.now = func() time.Time { return testNow }

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAccountServiceHandler(NewAccountService(store, env.metrics), interceptors))
	mux.Handle(apiconnect.NewTransactionServiceHandler(transactionSvc, interceptors))
	mux.Handle(apiconnect.NewBudgetServiceHandler(budgetSvc, interceptors))
	mux.Handle(apiconnect.NewSplitServiceHandler(splitSvc, interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store), interceptors))
	mux.Handle(apiconnect.NewAnalyticsServiceHandler(analyticsSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env.accounts = apiconnect.NewAccountServiceClient(server.Client(), server.URL)
	env.transactions = apiconnect.NewTransactionServiceClient(server.Client(), server.URL)
	env.budgets = apiconnect.NewBudgetServiceClient(server.Client(), server.URL)
	env.splits = apiconnect.NewSplitServiceClient(server.Client(), server.URL)
	env.groups = apiconnect.NewGroupServiceClient(server.Client(), server.URL)
	env.analytics = apiconnect.NewAnalyticsServiceClient(server.Client(), server.URL)
	return env
}

// user registers a user directly in storage and returns its ID.
func (e *testEnv) user(t *testing.T, name string) string {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "hash")
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u.ID
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ptr[T any](v T) *T {
	return &v
}
