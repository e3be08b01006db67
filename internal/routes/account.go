package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/account"
)

// RegisterAccountRoutes wires the profile endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Get("/me", h.Profile)
	r.Put("/me", h.UpdateProfile)
}
