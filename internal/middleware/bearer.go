package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stride-sport/stride/internal/account"
	"github.com/stride-sport/stride/internal/auth"
)

// BearerAuth validates the Authorization header against the token issuer and
// resolves the subject email to an account. Downstream handlers read the
// identity from the request locals.
func BearerAuth(tokens *auth.TokenIssuer, repo account.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		email, err := tokens.Verify(tokenStr)
		if err != nil {
			return err
		}

		acct, err := repo.FindByEmail(c.UserContext(), email)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}

		c.Locals("account_id", acct.ID)
		c.Locals("account_email", acct.Email)
		return c.Next()
	}
}
