package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/auth"
)

// UserContextKey is where the auth filter stores the resolved principal in
// the echo context.
const UserContextKey = "user"

// AuthFilter applies the configured strategy to every request:
//
//	path excluded            → pass through untouched
//	auth required, no credential → 401
//	credential present, principal unresolved → 403
//	principal resolved       → pass through with the user in context
//
// A nil strategy disables filtering entirely (AUTH_TYPE unset).
func AuthFilter(strategy auth.Strategy, excludedPaths []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strategy == nil {
				return next(c)
			}

			req := c.Request()
			if !strategy.RequiresAuth(req.URL.Path, excludedPaths) {
				metrics.AuthDecisionsTotal.WithLabelValues("excluded").Inc()
				return next(c)
			}

			if credential(strategy, req) == "" {
				metrics.AuthDecisionsTotal.WithLabelValues("unauthorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			user := strategy.ResolvePrincipal(req.Context(), req)
			if user == nil {
				metrics.AuthDecisionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			metrics.AuthDecisionsTotal.WithLabelValues("allowed").Inc()
			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// credential returns whatever the strategy treats as the raw credential: the
// session cookie when the strategy reads one, otherwise the Authorization
// header.
func credential(s auth.Strategy, r *http.Request) string {
	if sc, ok := s.(interface{ SessionCookie(*http.Request) string }); ok {
		if v := sc.SessionCookie(r); v != "" {
			return v
		}
	}
	return s.ExtractCredential(r)
}
