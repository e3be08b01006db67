package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/account"
	"github.com/stride-sport/stride/internal/auth"
)

func setupProtectedApp(t *testing.T) (*fiber.App, *auth.TokenIssuer) {
	t.Helper()
	repo := account.NewMemoryRepository()
	if err := repo.Create(context.Background(), account.Account{ID: "acct-1", Email: "a@x.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	app := fiber.New()
	app.Get("/me", BearerAuth(tokens, repo), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("account_id"), "email": c.Locals("account_email")})
	})
	return app, tokens
}

func TestBearerAuthMissingHeader(t *testing.T) {
	app, _ := setupProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestBearerAuthValidToken(t *testing.T) {
	app, tokens := setupProtectedApp(t)

	token, err := tokens.Mint("a@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
}

func TestBearerAuthUnknownSubject(t *testing.T) {
	app, tokens := setupProtectedApp(t)

	token, err := tokens.Mint("ghost@x.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}
