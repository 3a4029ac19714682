package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Role claim values issued by the auth handlers.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// RequireRole returns a middleware that enforces that the
// authenticated caller carries one of the given roles in its JWT
// "role" claim.  It assumes JWTAuth already stored the claim in the
// context; anything else is rejected with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
