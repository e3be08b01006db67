package account

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes profile endpoints for the authenticated account.
type Handler struct {
	service *Service
}

// NewHandler constructs an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Profile returns the caller's account.
func (h *Handler) Profile(c *fiber.Ctx) error {
	email, _ := c.Locals("account_email").(string)
	if email == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	acct, err := h.service.Profile(c.UserContext(), email)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(toProfileResponse(acct))
}

// UpdateProfile changes name and phone for the caller's account.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	email, _ := c.Locals("account_email").(string)
	if email == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.UpdateProfile(c.UserContext(), email, req.Name, req.Phone)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(toProfileResponse(acct))
}

func toProfileResponse(acct Account) profileResponse {
	return profileResponse{
		ID:        acct.ID,
		Email:     acct.Email,
		Name:      acct.Name,
		Phone:     acct.Phone,
		Verified:  acct.Verified,
		CreatedAt: acct.CreatedAt,
	}
}
