package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/amar-295/student-finance-db-sub001/internal/auth"
	"github.com/amar-295/student-finance-db-sub001/internal/metrics"
	"github.com/amar-295/student-finance-db-sub001/internal/middleware"
	"github.com/amar-295/student-finance-db-sub001/internal/notify"
	"github.com/amar-295/student-finance-db-sub001/internal/service"
	"github.com/amar-295/student-finance-db-sub001/internal/storage/sqlite"
	"github.com/amar-295/student-finance-db-sub001/pkg/api/apiconnect"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 8080, "port to listen on")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	ctx := cmd.Context()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	publisher, err := newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	interceptors := connect.WithInterceptors(
		middleware.ErrorReporting(),
		middleware.LoggingInterceptor(slog.Default()),
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	budgets := service.BudgetOptions{
		DefaultThreshold: cfg.Budgets.DefaultThreshold,
		Concurrency:      cfg.Budgets.Concurrency,
	}

	router := mux.NewRouter()
	mount := func(path string, handler http.Handler) {
		router.PathPrefix(path).Handler(handler)
	}
	mount(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, slog.Default()), interceptors))
	mount(apiconnect.NewAccountServiceHandler(service.NewAccountService(store, m), interceptors))
	mount(apiconnect.NewTransactionServiceHandler(service.NewTransactionService(store), interceptors))
	mount(apiconnect.NewBudgetServiceHandler(service.NewBudgetService(store, budgets, publisher, m), interceptors))
	mount(apiconnect.NewSplitServiceHandler(service.NewSplitService(store, cfg.Splits.Tolerance, publisher, m), interceptors))
	mount(apiconnect.NewGroupServiceHandler(service.NewGroupService(store), interceptors))
	mount(apiconnect.NewAnalyticsServiceHandler(service.NewAnalyticsService(store), interceptors))
	router.HandleFunc("/healthz", healthHandler(store)).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocol needs.
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(router)), &http2.Server{})
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

// newPublisher connects to the broker when one is configured and logs
// notifications otherwise.
func newPublisher() (notify.Publisher, error) {
	if cfg.AMQP.URL == "" {
		slog.Info("No AMQP broker configured, notifications are logged only")
		return notify.LogPublisher{}, nil
	}
	publisher, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	slog.Info("Publishing notifications", "exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)
	return publisher, nil
}
