package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stride-sport/stride/internal/account"
	"github.com/stride-sport/stride/internal/auth"
	"github.com/stride-sport/stride/internal/cart"
	"github.com/stride-sport/stride/internal/config"
	"github.com/stride-sport/stride/internal/middleware"
	"github.com/stride-sport/stride/internal/notification"
	"github.com/stride-sport/stride/internal/order"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev the backing stores are mandatory.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var accountRepo account.Repository
	var cartRepo cart.Repository
	var orderRepo order.Repository
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
		cartRepo = cart.NewPostgresRepository(d.DB)
		orderRepo = order.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		cartRepo = cart.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
	}

	// Collaborators
	var mailer notification.Mailer
	if d.Cfg.SendGridAPIKey != "" {
		mailer = notification.NewSendGridMailer(d.Cfg.SendGridAPIKey, d.Cfg.EmailFrom, d.Cfg.VerifyBaseURL)
	} else {
		mailer = notification.NewLogMailer(d.Logger)
	}
	tokens := auth.NewTokenIssuer([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL)

	// Services and handlers
	authSvc := auth.NewService(d.Cfg, accountRepo, mailer, tokens, d.Logger)
	accountSvc := account.NewService(accountRepo)
	cartSvc := cart.NewService(cartRepo)
	orderSvc := order.NewService(orderRepo, cartSvc, mailer, d.Logger)

	authHandler := auth.NewHandler(authSvc)
	accountHandler := account.NewHandler(accountSvc)
	cartHandler := cart.NewHandler(cartSvc)
	orderHandler := order.NewHandler(orderSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.OTPRateLimit(d.Cache, d.Cfg.OTPRatePerMin)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	bearer := middleware.BearerAuth(tokens, accountRepo)
	protected := api.Group("", bearer)
	RegisterAccountRoutes(protected, accountHandler)
	RegisterCartRoutes(protected, cartHandler)

	var checkoutGuard fiber.Handler
	if d.Cache != nil {
		checkoutGuard = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterOrderRoutes(protected, orderHandler, checkoutGuard)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
