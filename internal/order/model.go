package order

import "time"

// Order statuses, in lifecycle order. Only StatusPending is assigned by this
// service; the rest exist for fulfilment tooling to advance.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ShippingAddress is the structured delivery address captured at checkout.
type ShippingAddress struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PinCode      string
	Phone        string
}

// LineItem is a product snapshot frozen at purchase time.
type LineItem struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    int64
	Quantity     int
	Size         string
	Color        string
}

// Order is a placed order with its line items.
type Order struct {
	ID            string
	AccountID     string
	OrderNumber   string
	TotalAmount   int64
	Status        string
	Shipping      ShippingAddress
	PaymentMethod string
	Items         []LineItem
	CreatedAt     time.Time
}
