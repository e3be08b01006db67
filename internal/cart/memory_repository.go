package cart

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.Mutex
	items map[string]Item // keyed by item id
}

// NewMemoryRepository builds an in-memory cart store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]Item)}
}

func (r *memoryRepository) Add(_ context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, accountID string) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []Item
	for _, item := range r.items {
		if item.AccountID == accountID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *memoryRepository) UpdateQuantity(_ context.Context, accountID, itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.AccountID != accountID {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	r.items[itemID] = item
	return nil
}

func (r *memoryRepository) Remove(_ context.Context, accountID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.AccountID != accountID {
		return ErrItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *memoryRepository) Clear(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.AccountID == accountID {
			delete(r.items, id)
		}
	}
	return nil
}
