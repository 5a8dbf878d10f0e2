package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/common/utils"
	"github.com/imadgeboyega/matcha-backend/internal/config"
	"github.com/imadgeboyega/matcha-backend/internal/interaction"
	"github.com/imadgeboyega/matcha-backend/internal/matching"
	"github.com/imadgeboyega/matcha-backend/internal/notification"
)

type routerDeps struct {
	db               *sqlx.DB
	redis            *redis.Client
	auth             *auth.Middleware
	matching         *matching.Handler
	interaction      *interaction.Handler
	interactionLimit interaction.RateLimit
	notification     *notification.Handler
}

func newRouter(cfg *config.Config, deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logging.RequestIDHeader},
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", healthCheck(deps.db, deps.redis))
	r.Handle("/metrics", promhttp.Handler())

	matching.RegisterRoutes(r, deps.matching, deps.auth)
	interaction.RegisterRoutes(r, deps.interaction, deps.auth, deps.interactionLimit)
	notification.RegisterRoutes(r, deps.notification, deps.auth)

	return r
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// healthCheck reports server health and the state of its backing stores
func healthCheck(db *sqlx.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response := healthResponse{
			Status:    "healthy",
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(startTime).String(),
			Checks:    map[string]string{},
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			response.Status = "unhealthy"
			response.Checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			response.Checks["postgres"] = "ok"
		}

		if redisClient == nil {
			response.Checks["redis"] = "disabled"
		} else if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache and relay degrade without Redis
			if status == http.StatusOK {
				response.Status = "degraded"
			}
			response.Checks["redis"] = err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}

		utils.RespondWithJSON(w, status, response)
	}
}
