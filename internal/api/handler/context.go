package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/middleware"
	"github.com/authgate/authgate/internal/core/domain"
)

// principalFromContext returns the principal injected by the auth filter, or
// nil when the route ran outside the filter (AUTH_TYPE unset, or an excluded
// path).
func principalFromContext(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	return user
}
