package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/usecase/auth"
)

const principalKey = "ledger.principal"

// AuthMiddleware resolves the bearer token into a Principal and stores
// it in the echo context. Mutating routes behind it never see raw
// credentials.
func AuthMiddleware(gate *auth.Usecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(raw, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			p, err := gate.Authenticate(strings.TrimPrefix(raw, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal resolved by AuthMiddleware.
func PrincipalFrom(c echo.Context) (ledger.Principal, bool) {
	p, ok := c.Get(principalKey).(ledger.Principal)
	return p, ok
}

// WithPrincipal injects a principal directly; test hook for handlers
// exercised without the auth middleware.
func WithPrincipal(c echo.Context, p ledger.Principal) { c.Set(principalKey, p) }
