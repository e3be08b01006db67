package order

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an order HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type shippingAddressPayload struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pin_code"`
	Phone        string `json:"phone"`
}

type checkoutRequest struct {
	ShippingAddress shippingAddressPayload `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

type lineItemResponse struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	Size         string `json:"size"`
	Color        string `json:"color"`
}

type orderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	TotalAmount     int64                  `json:"total_amount"`
	Status          string                 `json:"status"`
	ShippingAddress shippingAddressPayload `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	Items           []lineItemResponse     `json:"items"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Checkout places an order from the caller's cart.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	email, _ := c.Locals("account_email").(string)
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	ord, err := h.service.Checkout(c.UserContext(), CheckoutInput{
		AccountID: accountID,
		Email:     email,
		Shipping: ShippingAddress{
			FullName:     req.ShippingAddress.FullName,
			AddressLine1: req.ShippingAddress.AddressLine1,
			AddressLine2: req.ShippingAddress.AddressLine2,
			City:         req.ShippingAddress.City,
			State:        req.ShippingAddress.State,
			PinCode:      req.ShippingAddress.PinCode,
			Phone:        req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toOrderResponse(ord))
}

// List returns the caller's orders, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	orders, err := h.service.ListByAccount(c.UserContext(), accountID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, ord := range orders {
		resp = append(resp, toOrderResponse(ord))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func toOrderResponse(ord Order) orderResponse {
	resp := orderResponse{
		ID:          ord.ID,
		OrderNumber: ord.OrderNumber,
		TotalAmount: ord.TotalAmount,
		Status:      ord.Status,
		ShippingAddress: shippingAddressPayload{
			FullName:     ord.Shipping.FullName,
			AddressLine1: ord.Shipping.AddressLine1,
			AddressLine2: ord.Shipping.AddressLine2,
			City:         ord.Shipping.City,
			State:        ord.Shipping.State,
			PinCode:      ord.Shipping.PinCode,
			Phone:        ord.Shipping.Phone,
		},
		PaymentMethod: ord.PaymentMethod,
		CreatedAt:     ord.CreatedAt,
	}
	for _, item := range ord.Items {
		resp.Items = append(resp.Items, lineItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Size:         item.Size,
			Color:        item.Color,
		})
	}
	return resp
}
