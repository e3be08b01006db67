package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stride-sport/stride/internal/auth"
	"github.com/stride-sport/stride/internal/config"
	"github.com/stride-sport/stride/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every error as {"error": {"kind", "message"}} so
// clients can branch on the kind instead of parsing messages.
func errorHandler(c *fiber.Ctx, err error) error {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return c.Status(authErr.HTTPStatus()).JSON(fiber.Map{
			"error": fiber.Map{"kind": string(authErr.Kind), "message": authErr.Message},
		})
	}

	status := http.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}

	kind := "internal"
	switch {
	case status == http.StatusNotFound:
		kind = "not_found"
	case status == http.StatusUnauthorized:
		kind = "unauthorized"
	case status == http.StatusTooManyRequests:
		kind = "rate_limited"
	case status == http.StatusConflict:
		kind = "conflict"
	case status >= 400 && status < 500:
		kind = "bad_request"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"kind": kind, "message": err.Error()},
	})
}
