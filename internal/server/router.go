// Package server собирает HTTP API сервера версий
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/gophtask/internal/server/handlers"
	"github.com/iudanet/gophtask/internal/server/middleware"
	"github.com/iudanet/gophtask/internal/server/storage"
)

// HealthPath не требует авторизации и не попадает в request log
const HealthPath = "/api/v1/health"

// Store хранилище версий с проверкой доступности
type Store interface {
	storage.VersionStorage
	handlers.Pinger
}

// RouterConfig зависимости HTTP API
type RouterConfig struct {
	Logger  *slog.Logger
	Store   Store
	Tokens  middleware.TokenValidator
	Limiter *middleware.RateLimiter // nil отключает ограничение частоты
}

// NewRouter возвращает handler со всеми маршрутами API
func NewRouter(cfg RouterConfig) http.Handler {
	health := handlers.NewHealthHandler(cfg.Logger, cfg.Store)
	versions := handlers.NewVersionsHandler(cfg.Logger, cfg.Store)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))
	r.Use(middleware.LoggingWithSkip(cfg.Logger, []string{HealthPath}))

	r.Get(HealthPath, health.Health)

	r.Route("/api/v1/versions", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Logger, cfg.Tokens))
		if cfg.Limiter != nil {
			r.Use(middleware.RateLimitMiddleware(cfg.Limiter))
		}
		r.Get("/", versions.GetVersions)
		r.Post("/{version}", versions.AddVersion)
	})

	return r
}
