package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the signup, verification, and sign-in endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// Signup registers an account and triggers the confirmation flow.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password are required")
	}
	if err := h.service.Signup(c.UserContext(), SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	}); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"status": "pending", "message": "Signup successful! Check " + req.Email + " to verify your account."})
}

// ConfirmSignupOTP redeems the signup code.
func (h *Handler) ConfirmSignupOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.ConfirmSignupOTP(c.UserContext(), req.Email, req.Code); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "verified", "message": "Email verified! You can now sign in."})
}

// RequestSigninOTP issues a fresh sign-in code.
func (h *Handler) RequestSigninOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.RequestSigninOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "sent", "message": "Code sent to " + req.Email})
}

// ConfirmSigninOTP redeems a sign-in code and returns a bearer token.
func (h *Handler) ConfirmSigninOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	session, err := h.service.ConfirmSigninOTP(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{
		Token:     session.Token,
		AccountID: session.AccountID,
		Email:     session.Email,
		Name:      session.Name,
	})
}

// Login authenticates with email and password.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{
		Token:     session.Token,
		AccountID: session.AccountID,
		Email:     session.Email,
		Name:      session.Name,
	})
}

// RedeemVerificationLink exchanges an emailed token for verified status.
func (h *Handler) RedeemVerificationLink(c *fiber.Ctx) error {
	token := c.Query("token")
	if err := h.service.RedeemVerificationLink(c.UserContext(), token); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "verified", "message": "Email verified successfully"})
}
