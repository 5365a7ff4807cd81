package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rediscache "github.com/SscSPs/bizledger_app/internal/adapters/cache/redis"
	kafkapub "github.com/SscSPs/bizledger_app/internal/adapters/messaging/kafka"
	"github.com/SscSPs/bizledger_app/internal/core/services"
	"github.com/SscSPs/bizledger_app/internal/handlers"
	"github.com/SscSPs/bizledger_app/internal/middleware"
	"github.com/SscSPs/bizledger_app/internal/platform/config"
	"github.com/SscSPs/bizledger_app/internal/platform/metrics"
	"github.com/SscSPs/bizledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizledger_app/internal/utils"
	"github.com/SscSPs/bizledger_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// @title BizLedger API
// @version 1.0
// @description Multi-tenant double-entry ledger with inventory, orders and payroll postings.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	changed, err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp)
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if changed {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedger(registry)

	repos := pgsql.NewRepositoryProvider(dbPool)
	options := []services.ContainerOption{services.WithMetrics(ledgerMetrics)}

	var redisClient redis.UniversalClient
	if cfg.RedisURL != "" {
		redisClient, err = rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		options = append(options, services.WithSubscriptionReader(
			rediscache.NewSubscriptionCache(redisClient, repos.SubscriptionRepo, cfg.SubscriptionCacheTTL, logger),
		))
		logger.Info("Subscription cache enabled", slog.Duration("ttl", cfg.SubscriptionCacheTTL))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafkapub.NewLedgerPublisher(cfg.KafkaBrokers, cfg.KafkaLedgerTopic, logger)
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Error("Error closing ledger publisher", slog.String("error", cerr.Error()))
			}
		}()
		options = append(options, services.WithEventPublisher(publisher))
		logger.Info("Ledger events enabled", slog.String("topic", cfg.KafkaLedgerTopic))
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, options...)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	rateLimiter, err := newRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		Limiter:  rateLimiter,
		Posthog:  posthogClient,
		Gatherer: registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newRateLimiter shares counters through Redis when available, in memory otherwise.
func newRateLimiter(formatted string, client redis.UniversalClient) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "bizledger_limiter"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}
