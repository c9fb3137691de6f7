package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/cmd/mainconfig"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/api/router"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/bookings"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	appconfig "github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/config"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/notify"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/observability/metrics"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/voice"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting laundry booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Keep the pickup schedule open for the configured horizon.
	ledger := slots.NewPostgresLedger(pool)
	if err := ledger.EnsureProvisioned(ctx, time.Now(), cfg.SlotProvisionDays, cfg.SlotDefaultCapacity); err != nil {
		logger.Error("failed to provision time slots", "error", err)
		os.Exit(1)
	}

	var repo catalog.Repository = catalog.NewPostgresRepository(pool)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		repo = catalog.NewCachedRepository(repo, client, cfg.CatalogCacheTTL, logger)
		logger.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	store := bookings.NewPostgresStore(pool)
	bookingMetrics := metrics.NewBookingMetrics(nil)
	bookingSvc := bookings.NewService(store, repo, ledger, voice.NewParser(), bookingMetrics, logger)

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		BookingsHandler:    bookings.NewHandler(bookingSvc, notifier, logger),
		CatalogHandler:     catalog.NewHandler(repo, bookingSvc, logger),
		SlotsHandler:       slots.NewHandler(ledger, logger),
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSOrigins,
		MetricsHandler:     promhttp.Handler(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the configured provider, falling back to the stub
// so notification wiring never blocks startup.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	provider := cfg.EmailProvider
	if provider == "auto" {
		switch {
		case cfg.SendGridAPIKey != "":
			provider = "sendgrid"
		case cfg.FromEmail != "":
			provider = "ses"
		default:
			provider = "stub"
		}
	}

	switch provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			logger.Error("SENDGRID_API_KEY missing, using stub email sender")
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger)
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, using stub email sender", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
