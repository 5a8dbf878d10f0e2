// cmd/api/main.go
// Main entry point for the matching API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
	"github.com/imadgeboyega/matcha-backend/internal/common/database"
	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/config"
	"github.com/imadgeboyega/matcha-backend/internal/interaction"
	"github.com/imadgeboyega/matcha-backend/internal/matching"
	"github.com/imadgeboyega/matcha-backend/internal/notification"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.WithComponent("api")

	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration validation failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// 4. Connect to Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("continuing without Redis")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("connected to Redis")
		}
	} else {
		log.Info().Msg("Redis URL not configured, suggestion cache and real-time relay disabled")
	}

	// 5. Matching
	matchingConfig := matching.Config{
		DefaultLimit: cfg.DefaultSuggestionLimit,
		MaxLimit:     cfg.MaxSuggestionLimit,
		ActiveWindow: cfg.FameSweepWindow(),
	}
	matchingService := matching.NewService(
		matching.NewPostgresStore(db),
		matching.NewRedisSuggestionCache(redisClient, cfg.SuggestionCacheTTL),
		matchingConfig,
	)
	matchingHandler := matching.NewHandler(matchingService, matchingConfig, cfg.RankTimeout)

	// 6. Notifications
	emailSender, err := notification.NewEmailSender(notification.EmailConfig{
		Provider:       cfg.EmailProvider,
		From:           cfg.EmailFrom,
		SendGridAPIKey: cfg.SendGridAPIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUsername:   cfg.SMTPUsername,
		SMTPPassword:   cfg.SMTPPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email provider")
	}
	smsSender, err := notification.NewSMSSender(notification.SMSConfig{
		Provider:   cfg.SMSProvider,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize SMS provider")
	}

	notificationService := notification.NewService(
		notification.NewPostgresRepository(db),
		notification.NewPublisher(redisClient),
		emailSender,
		smsSender,
		notification.Config{
			EmailOnMatch: cfg.EnableEmailNotifications,
			SMSOnMatch:   cfg.EnableSMSNotifications,
		},
	)
	notificationHandler := notification.NewHandler(notificationService)

	// 7. Interactions
	interactionService := interaction.NewService(
		interaction.NewPostgresRepository(db),
		matchingService,
		matchingService,
		notificationService,
	)
	interactionHandler := interaction.NewHandler(interactionService)

	// 8. Background jobs
	go matching.NewScheduler(matchingService, cfg.FameSweepInterval).Start(ctx)
	cleanupJob := notification.NewCleanupJob(notificationService, cfg.NotificationCleanupInterval, cfg.NotificationRetention)
	go cleanupJob.Start(ctx)

	// 9. Routes
	router := newRouter(cfg, routerDeps{
		db:          db,
		redis:       redisClient,
		auth:        auth.NewMiddleware(cfg.JWTSecret),
		matching:    matchingHandler,
		interaction: interactionHandler,
		interactionLimit: interaction.RateLimit{
			Requests: cfg.RateLimitRequests,
			Window:   cfg.RateLimitWindow,
		},
		notification: notificationHandler,
	})

	// 10. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	// Graceful server shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited gracefully")
}
