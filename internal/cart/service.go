package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service manages the shopping cart for an account.
type Service struct {
	repo Repository
}

// NewService creates a new cart service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddInput captures a product line to add to the cart.
type AddInput struct {
	AccountID    string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    int64
	Quantity     int
	Size         string
	Color        string
}

// Add appends a line to the account's cart.
func (s *Service) Add(ctx context.Context, in AddInput) (Item, error) {
	if in.ProductID == "" {
		return Item{}, errors.New("product_id is required")
	}
	if in.Quantity <= 0 {
		return Item{}, errors.New("quantity must be positive")
	}
	if in.UnitPrice < 0 {
		return Item{}, errors.New("price must not be negative")
	}

	item := Item{
		ID:           uuid.NewString(),
		AccountID:    in.AccountID,
		ProductID:    in.ProductID,
		ProductName:  in.ProductName,
		ProductImage: in.ProductImage,
		UnitPrice:    in.UnitPrice,
		Quantity:     in.Quantity,
		Size:         in.Size,
		Color:        in.Color,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Add(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns the account's cart lines.
func (s *Service) List(ctx context.Context, accountID string) ([]Item, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// UpdateQuantity changes the quantity of a line owned by the account.
func (s *Service) UpdateQuantity(ctx context.Context, accountID, itemID string, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return s.repo.UpdateQuantity(ctx, accountID, itemID, quantity)
}

// Remove deletes a line owned by the account.
func (s *Service) Remove(ctx context.Context, accountID, itemID string) error {
	return s.repo.Remove(ctx, accountID, itemID)
}

// Clear empties the account's cart.
func (s *Service) Clear(ctx context.Context, accountID string) error {
	return s.repo.Clear(ctx, accountID)
}
