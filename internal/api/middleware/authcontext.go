package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/service"
)

// Resolver is the slice of the auth context resolver this middleware
// needs.
type Resolver interface {
	Resolve(ctx context.Context, id service.Identity) (domain.AuthContext, error)
}

// ResolveAuthContext builds the request's AuthContext from the
// authenticated identity (set by Auth) and the role directory, and
// stores it under KeyAuthContext. Runs after Auth on every protected
// route; handlers read the context from there and thread it explicitly
// into every gateway call.
//
// Fail-closed: a member without a resolvable role gets 403, and a role
// lookup failure gets 503. Neither ever falls through to the handler.
func ResolveAuthContext(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			memberID, _ := c.Get(KeyMemberID).(string)
			email, _ := c.Get(KeyEmail).(string)

			ac, err := resolver.Resolve(c.Request().Context(), service.Identity{
				MemberID: memberID,
				Email:    email,
			})
			if err != nil {
				if errors.Is(err, domain.ErrInvalidAuthContext) {
					return echo.NewHTTPError(http.StatusForbidden, "no access")
				}
				// Lookup failed: degraded, not denied-as-no-role. Still
				// no access, but the client may retry.
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authorization temporarily unavailable")
			}

			c.Set(KeyAuthContext, ac)
			return next(c)
		}
	}
}
