package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amar-295/student-finance-db-sub001/internal/auth"
	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/models"
	"github.com/amar-295/student-finance-db-sub001/pkg/api"
	"github.com/amar-295/student-finance-db-sub001/pkg/api/apiconnect"
)

// whoAmI answers GetCurrentUser with the user id found in the context and
// fails Login with the configured error.
type whoAmI struct {
	loginErr error
}

func (w *whoAmI) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{}), nil
}

func (w *whoAmI) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	if w.loginErr != nil {
		return nil, w.loginErr
	}
	return connect.NewResponse(&api.LoginResponse{}), nil
}

func (w *whoAmI) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)}}), nil
}

func newTestClient(t *testing.T, svc *whoAmI, interceptors ...connect.Interceptor) apiconnect.AuthServiceClient {
	t.Helper()
	path, handler := apiconnect.NewAuthServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiconnect.NewAuthServiceClient(server.Client(), server.URL)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("0123456789abcdef", time.Hour)
	client := newTestClient(t, &whoAmI{}, RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure))
	ctx := context.Background()

	t.Run("public procedure needs no token", func(t *testing.T) {
		_, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
		require.NoError(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("malformed header", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Token abc")
		_, err := client.GetCurrentUser(ctx, req)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "sam@example.com"})
		require.NoError(t, err)

		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
		assert.Equal(t, "sam@example.com", resp.Msg.User.Email)
	})
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	svc := &whoAmI{loginErr: connect.NewError(connect.CodeInternal, errors.New("disk on fire"))}
	client := newTestClient(t, svc, LoggingInterceptor(logger))

	_, err := client.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{}))
	require.NoError(t, err)
	_, err = client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{}))
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"RPC ok"`)
	assert.Contains(t, lines[0], apiconnect.AuthServiceRegisterProcedure)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
	assert.Contains(t, lines[1], `"code":"internal"`)
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()
	svc := &whoAmI{loginErr: connect.NewError(connect.CodeUnauthenticated, errors.New("nope"))}
	client := newTestClient(t, svc, MetricsInterceptor(m))

	_, _ = client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{}))
	_, _ = client.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{}))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `finance_rpc_requests_total{code="unauthenticated",procedure="/finance.v1.AuthService/Login"} 1`)
	assert.Contains(t, body, `finance_rpc_requests_total{code="ok",procedure="/finance.v1.AuthService/Register"} 1`)
}

func TestErrorReportingPassesErrorsThrough(t *testing.T) {
	want := connect.NewError(connect.CodeInternal, errors.New("boom"))
	client := newTestClient(t, &whoAmI{loginErr: want}, ErrorReporting())

	_, err := client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{}))
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	assert.True(t, reportable(connect.CodeInternal))
	assert.False(t, reportable(connect.CodeNotFound))
}
