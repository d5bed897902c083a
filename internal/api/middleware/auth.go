package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the middleware chain.
const (
	KeyMemberID    = "member_id"
	KeyEmail       = "email"
	KeyAuthContext = "auth_context"
)

// Auth validates the bearer JWT and injects the member identity into
// the echo context. The token carries identity only, no role claim;
// the role is resolved server-side by ResolveAuthContext so a stale
// token can never carry outdated privileges.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			memberID, _ := claims[KeyMemberID].(string)
			if memberID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing member identity")
			}

			c.Set(KeyMemberID, memberID)
			c.Set(KeyEmail, claims[KeyEmail])

			return next(c)
		}
	}
}
