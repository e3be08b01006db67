package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/auth"
)

// RegisterAuthRoutes wires signup, verification, and sign-in endpoints. The
// rate limiter guards the endpoints that issue codes or check credentials.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.Signup)
	group.Post("/verify-otp", h.ConfirmSignupOTP)
	group.Get("/verify", h.RedeemVerificationLink)
	if rateLimiter != nil {
		group.Post("/signin/request-otp", rateLimiter, h.RequestSigninOTP)
		group.Post("/signin/verify-otp", rateLimiter, h.ConfirmSigninOTP)
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/signin/request-otp", h.RequestSigninOTP)
		group.Post("/signin/verify-otp", h.ConfirmSigninOTP)
		group.Post("/login", h.Login)
	}
}
