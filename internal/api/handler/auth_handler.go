package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// AuthHandler exposes registration, login/logout, profile, and the
// password-reset flow.
type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionManager
	cookieName  string
	cookieTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionManager, cookieName string, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		cookieName:  cookieName,
		cookieTTL:   cookieTTL,
	}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// Login validates credentials and opens a session, returned as a cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if !h.authService.ValidLogin(ctx, req.Email, req.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return domain.ErrInvalidCredentials
	}

	token, err := h.sessions.Issue(ctx, req.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	c.SetCookie(h.sessionCookie(token, h.cookieTTL))
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Email: req.Email, Message: "logged in"})
}

// Logout destroys the session named by the request cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := h.readSessionCookie(c)
	if token == "" {
		return domain.ErrForbidden
	}

	ctx := c.Request().Context()
	user, err := h.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return err
	}

	if err := h.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	// Also clear any row-bound session so both bindings end up logged out.
	if err := h.authService.DestroySession(ctx, user.ID); err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie("", -time.Second))
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the email of the session's user. The auth filter may
// already have resolved the principal; otherwise fall back to the cookie so
// the endpoint also works when the filter is disabled.
func (h *AuthHandler) Profile(c echo.Context) error {
	if user := principalFromContext(c); user != nil {
		return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
	}

	token := h.readSessionCookie(c)
	if token == "" {
		return domain.ErrForbidden
	}

	user, err := h.sessions.Resolve(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"email": user.Email})
}

// ResetPasswordToken issues a single-use reset token for the given email.
// Unknown emails answer 403, matching the rest of the reset flow, so the
// endpoint does not become an account oracle with a distinct 404.
func (h *AuthHandler) ResetPasswordToken(c echo.Context) error {
	var req resetTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.ResetPasswordToken(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("token_issued").Inc()
	return c.JSON(http.StatusOK, resetTokenResponse{Email: req.Email, ResetToken: token})
}

// UpdatePassword consumes a reset token and sets the new password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.UpdatePassword(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("password_updated").Inc()
	return c.JSON(http.StatusOK, messageResponse{Email: req.Email, Message: "Password updated"})
}

func (h *AuthHandler) readSessionCookie(c echo.Context) string {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	} else if ttl < 0 {
		cookie.MaxAge = -1
	}
	return cookie
}
