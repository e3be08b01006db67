package cart

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes cart HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a cart HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	Size         string `json:"size"`
	Color        string `json:"color"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

type itemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	Size         string `json:"size"`
	Color        string `json:"color"`
}

// Add appends an item to the caller's cart.
func (h *Handler) Add(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	item, err := h.service.Add(c.UserContext(), AddInput{
		AccountID:    accountID,
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		ProductImage: req.ProductImage,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		Size:         req.Size,
		Color:        req.Color,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toItemResponse(item))
}

// List returns the caller's cart.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	items, err := h.service.List(c.UserContext(), accountID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// UpdateQuantity changes the quantity of an item in the caller's cart.
func (h *Handler) UpdateQuantity(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.UpdateQuantity(c.UserContext(), accountID, c.Params("itemId"), req.Quantity); err != nil {
		if err == ErrItemNotFound {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "updated"})
}

// Remove deletes an item from the caller's cart.
func (h *Handler) Remove(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if err := h.service.Remove(c.UserContext(), accountID, c.Params("itemId")); err != nil {
		if err == ErrItemNotFound {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "removed"})
}

// Clear empties the caller's cart.
func (h *Handler) Clear(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if err := h.service.Clear(c.UserContext(), accountID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "cleared"})
}

func toItemResponse(item Item) itemResponse {
	return itemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		UnitPrice:    item.UnitPrice,
		Quantity:     item.Quantity,
		Size:         item.Size,
		Color:        item.Color,
	}
}
