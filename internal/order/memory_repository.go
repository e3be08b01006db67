package order

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.Mutex
	orders []Order
}

// NewMemoryRepository builds an in-memory order store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, ord Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, ord)
	return nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, accountID string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []Order
	for _, ord := range r.orders {
		if ord.AccountID == accountID {
			orders = append(orders, ord)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}
