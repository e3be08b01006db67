package cart

import "time"

// Item is a product line sitting in an account's cart. Prices are stored in
// minor units.
type Item struct {
	ID           string
	AccountID    string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    int64
	Quantity     int
	Size         string
	Color        string
	CreatedAt    time.Time
}

// Subtotal is the line total for the item.
func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
