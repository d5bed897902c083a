package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitcoach/coaching-platform/internal/api/middleware"
	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

// ctxAuth extracts the AuthContext resolved by the middleware chain and
// fast-fails before any service call: presence of a valid context
// proves both Auth and ResolveAuthContext ran.
func ctxAuth(c echo.Context) (domain.AuthContext, error) {
	ac, ok := c.Get(middleware.KeyAuthContext).(domain.AuthContext)
	if !ok || !ac.Valid() {
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return ac, nil
}
