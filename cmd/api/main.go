package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightloom/storefront-backend/api/routes"
	"github.com/brightloom/storefront-backend/internal/admingate"
	"github.com/brightloom/storefront-backend/internal/bookings"
	"github.com/brightloom/storefront-backend/internal/cart"
	checkoutsvc "github.com/brightloom/storefront-backend/internal/checkout"
	"github.com/brightloom/storefront-backend/internal/contact"
	"github.com/brightloom/storefront-backend/internal/notifier"
	"github.com/brightloom/storefront-backend/internal/orders"
	stripewebhook "github.com/brightloom/storefront-backend/internal/webhooks/stripe"
	"github.com/brightloom/storefront-backend/pkg/config"
	"github.com/brightloom/storefront-backend/pkg/db"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/brightloom/storefront-backend/pkg/metrics"
	"github.com/brightloom/storefront-backend/pkg/migrate"
	"github.com/brightloom/storefront-backend/pkg/redis"
	"github.com/brightloom/storefront-backend/pkg/stripe"
)

const (
	notifierQueueSize = 64
	shutdownTimeout   = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.Features.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(promRegistry)

	var mail mailer.Mailer
	if cfg.Resend.APIKey != "" {
		resendMailer, err := mailer.NewResend(cfg.Resend)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap resend", err)
			os.Exit(1)
		}
		mail = resendMailer
	} else {
		mail = mailer.Noop{Logg: logg}
	}
	notify := notifier.New(mail, logg, webhookMetrics, notifierQueueSize)
	defer notify.Close()

	cartService, err := cart.NewService(cart.NewRedisStorage(redisClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		checkoutsvc.NewStripeClient(stripeClient),
		cfg.Checkout,
		cfg.CORS.FrontendOrigin,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(
		bookings.NewRepository(dbClient.DB()),
		notify,
		cfg.Resend.NotifyTo,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(
		contact.NewRepository(dbClient.DB()),
		notify,
		cfg.Resend.NotifyTo,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	adminGate, err := admingate.NewService(cfg.AdminGate, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin gate", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Checkout.EventIdempotencyTTL, "stripe-event")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}
	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Orders:   ordersService,
		Guard:    webhookGuard,
		Notifier: notify,
		Metrics:  webhookMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			stripeClient,
			cartService,
			checkoutService,
			ordersService,
			bookingsService,
			contactService,
			adminGate,
			webhookService,
			promRegistry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
