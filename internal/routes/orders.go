package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/order"
)

// RegisterOrderRoutes wires order endpoints. Checkout optionally sits behind
// the idempotency guard so a resubmitted request replays the first response.
func RegisterOrderRoutes(r fiber.Router, h *order.Handler, checkoutGuard fiber.Handler) {
	if checkoutGuard != nil {
		r.Post("/orders/checkout", checkoutGuard, h.Checkout)
	} else {
		r.Post("/orders/checkout", h.Checkout)
	}
	r.Get("/orders", h.List)
}
