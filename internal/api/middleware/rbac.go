package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// RBAC restricts a route to the given roles. It reads the role the
// session middleware attached, so it must run after Session.
func RBAC(allowedRoles ...domain.UserRole) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
