package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimitedApp(t *testing.T, maxPerMin int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Post("/auth/signin/request-otp", OTPRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, cleanup
}

func requestOTP(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/auth/signin/request-otp", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestOTPRateLimitPerEmail(t *testing.T) {
	app, cleanup := setupRateLimitedApp(t, 3)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if status := requestOTP(t, app, "a@x.com"); status != fiber.StatusAccepted {
			t.Fatalf("request %d: expected %d got %d", i+1, fiber.StatusAccepted, status)
		}
	}

	if status := requestOTP(t, app, "a@x.com"); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d over the limit, got %d", fiber.StatusTooManyRequests, status)
	}

	// The window is per email, not global.
	if status := requestOTP(t, app, "b@x.com"); status != fiber.StatusAccepted {
		t.Fatalf("expected other email to pass, got %d", status)
	}
}

func TestOTPRateLimitNoCacheIsNoop(t *testing.T) {
	app := fiber.New()
	app.Post("/auth/signin/request-otp", OTPRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	for i := 0; i < 3; i++ {
		if status := requestOTP(t, app, "a@x.com"); status != fiber.StatusAccepted {
			t.Fatalf("expected pass-through without redis, got %d", status)
		}
	}
}
