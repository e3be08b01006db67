package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stride-sport/stride/internal/cart"
	"github.com/stride-sport/stride/internal/notification"
)

// ErrEmptyCart rejects a checkout with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// Service turns carts into orders.
type Service struct {
	repo   Repository
	carts  *cart.Service
	mailer notification.Mailer
	logger *slog.Logger
}

// NewService builds an order service.
func NewService(repo Repository, carts *cart.Service, mailer notification.Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, carts: carts, mailer: mailer, logger: logger}
}

// CheckoutInput captures the data needed to place an order.
type CheckoutInput struct {
	AccountID     string
	Email         string
	Shipping      ShippingAddress
	PaymentMethod string
}

// Checkout snapshots the cart into an order, clears the cart, and sends a
// best-effort confirmation email. The receipt never blocks the order.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (Order, error) {
	if in.Shipping.FullName == "" || in.Shipping.AddressLine1 == "" || in.Shipping.City == "" {
		return Order{}, errors.New("shipping name, address, and city are required")
	}

	lines, err := s.carts.List(ctx, in.AccountID)
	if err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	ord := Order{
		ID:            uuid.NewString(),
		AccountID:     in.AccountID,
		OrderNumber:   fmt.Sprintf("SP%d", now.UnixMilli()),
		Status:        StatusPending,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
	}
	for _, line := range lines {
		ord.TotalAmount += line.Subtotal()
		ord.Items = append(ord.Items, LineItem{
			ID:           uuid.NewString(),
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			Size:         line.Size,
			Color:        line.Color,
		})
	}

	if err := s.repo.Create(ctx, ord); err != nil {
		return Order{}, err
	}

	if err := s.carts.Clear(ctx, in.AccountID); err != nil {
		// The order is placed; a lingering cart is recoverable by the shopper.
		if s.logger != nil {
			s.logger.Warn("clear cart after checkout", "account_id", in.AccountID, "error", err)
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, in.Email, ord.OrderNumber, ord.TotalAmount); err != nil {
			if s.logger != nil {
				s.logger.Warn("order confirmation email failed", "order_number", ord.OrderNumber, "error", err)
			}
		}
	}

	return ord, nil
}

// ListByAccount returns the account's orders, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]Order, error) {
	return s.repo.ListByAccount(ctx, accountID)
}
