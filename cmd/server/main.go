package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dukerupert/vanir/internal"
	"github.com/dukerupert/vanir/internal/billing"
	"github.com/dukerupert/vanir/internal/email"
	"github.com/dukerupert/vanir/internal/handler"
	"github.com/dukerupert/vanir/internal/middleware"
	"github.com/dukerupert/vanir/internal/postgres"
	"github.com/dukerupert/vanir/internal/router"
	"github.com/dukerupert/vanir/internal/routes"
	"github.com/dukerupert/vanir/internal/service"
)

const sessionSweepInterval = time.Hour

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Migrations run over database/sql; the application itself uses pgx.
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info("Database migrations completed successfully")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Email is optional; without an SMTP host, order confirmations are
	// skipped.
	var emailService *email.Service
	if cfg.Email.Host != "" {
		sender := email.NewSMTPSender(&email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
		emailService = email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	}

	// Services
	identityResolver := service.NewIdentityResolver(store, store)
	userService := service.NewUserService(store)
	catalogService := service.NewCatalogService(store)
	cartService := service.NewCartService(store, store)
	discountValidator := service.NewDiscountValidator(
		cfg.Discount.ProviderURL,
		time.Duration(cfg.Discount.TimeoutSeconds)*time.Second,
		logger,
	)
	billingProvider := billing.NewStripeProvider(cfg.Stripe.SecretKey)

	var emailSender service.EmailSender
	if emailService != nil {
		emailSender = emailService
	}
	checkoutService := service.NewCheckoutService(
		cartService, discountValidator, store, store, billingProvider, emailSender, logger)

	// Expired sessions also fail lookup lazily; the sweep just keeps the
	// table from growing without bound.
	go identityResolver.SweepExpiredSessions(ctx, sessionSweepInterval, logger)

	// HTTP surface
	metrics := middleware.NewMetrics("vanir")
	secure := cfg.Env == "prod"

	r := router.New(
		middleware.RequestID,
		router.Logger(logger),
		router.Recovery(logger),
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(secure)),
		metrics.Middleware,
		middleware.WithIdentity(identityResolver, logger),
	)

	routes.Register(r, routes.Deps{
		Auth:     handler.NewAuthHandler(userService, identityResolver, secure, logger),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(discountValidator, checkoutService),
		Health:   handler.NewHealthHandler(pool),
		Metrics:  metrics,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
