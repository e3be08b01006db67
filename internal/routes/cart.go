package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/cart"
)

// RegisterCartRoutes wires cart endpoints.
func RegisterCartRoutes(r fiber.Router, h *cart.Handler) {
	r.Post("/cart", h.Add)
	r.Get("/cart", h.List)
	r.Put("/cart/:itemId", h.UpdateQuantity)
	r.Delete("/cart/:itemId", h.Remove)
	r.Delete("/cart", h.Clear)
}
