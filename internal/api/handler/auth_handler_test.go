package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/api/middleware"
	"github.com/authgate/authgate/internal/core/domain"
)

type stubAuthService struct {
	registerFn        func(ctx context.Context, email, password string) (*domain.User, error)
	validLoginFn      func(ctx context.Context, email, password string) bool
	resetTokenFn      func(ctx context.Context, email string) (string, error)
	updatePasswordFn  func(ctx context.Context, resetToken, newPassword string) error
	destroySessionIDs []string
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) ValidLogin(ctx context.Context, email, password string) bool {
	return s.validLoginFn(ctx, email, password)
}

func (s *stubAuthService) CreateSession(context.Context, string) (string, error) {
	return "", errors.New("not used in handler tests")
}

func (s *stubAuthService) UserFromSession(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used in handler tests")
}

func (s *stubAuthService) DestroySession(_ context.Context, userID string) error {
	s.destroySessionIDs = append(s.destroySessionIDs, userID)
	return nil
}

func (s *stubAuthService) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	return s.resetTokenFn(ctx, email)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	return s.updatePasswordFn(ctx, resetToken, newPassword)
}

type stubSessionManager struct {
	issueFn       func(ctx context.Context, email string) (string, error)
	resolveFn     func(ctx context.Context, token string) (*domain.User, error)
	revokedTokens []string
}

func (m *stubSessionManager) Issue(ctx context.Context, email string) (string, error) {
	return m.issueFn(ctx, email)
}

func (m *stubSessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	return m.resolveFn(ctx, token)
}

func (m *stubSessionManager) Revoke(_ context.Context, token string) error {
	m.revokedTokens = append(m.revokedTokens, token)
	return nil
}

const cookieName = "_my_session_id"

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, email, password string) (*domain.User, error) {
			if email != "a@b.com" || password != "password1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "user-1", Email: email}, nil
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, cookieName, time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"password1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user-1" || resp["email"] != "a@b.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, &stubSessionManager{}, cookieName, time.Hour)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"password1"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, cookieName, time.Hour)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"not-an-email","password":"password1"}`)
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		validLoginFn: func(_ context.Context, email, password string) bool {
			return email == "a@b.com" && password == "pw1"
		},
	}
	sessions := &stubSessionManager{
		issueFn: func(_ context.Context, email string) (string, error) {
			return "session-token", nil
		},
	}
	h := NewAuthHandler(svc, sessions, cookieName, time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == cookieName && cookie.Value == "session-token" {
			found = true
			if !cookie.HttpOnly {
				t.Fatalf("session cookie must be http-only")
			}
		}
	}
	if !found {
		t.Fatalf("session cookie not set: %+v", cookies)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		validLoginFn: func(context.Context, string, string) bool { return false },
	}
	h := NewAuthHandler(svc, &stubSessionManager{}, cookieName, time.Hour)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	sessions := &stubSessionManager{
		resolveFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "session-token" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: "user-1", Email: "a@b.com"}, nil
		},
	}
	h := NewAuthHandler(svc, sessions, cookieName, time.Hour)

	c, rec := newTestContext(t, http.MethodDelete, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: cookieName, Value: "session-token"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(sessions.revokedTokens) != 1 || sessions.revokedTokens[0] != "session-token" {
		t.Fatalf("session not revoked: %+v", sessions.revokedTokens)
	}
	if len(svc.destroySessionIDs) != 1 || svc.destroySessionIDs[0] != "user-1" {
		t.Fatalf("row session not destroyed: %+v", svc.destroySessionIDs)
	}

	// The cookie is expired on the way out.
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == cookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("session cookie not cleared")
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	sessions := &stubSessionManager{
		resolveFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(&stubAuthService{}, sessions, cookieName, time.Hour)

	// No cookie at all.
	c, _ := newTestContext(t, http.MethodDelete, "/auth/logout", "")
	if err := h.Logout(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without cookie, got %v", err)
	}

	// Cookie present but session unknown.
	c, _ = newTestContext(t, http.MethodDelete, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	if err := h.Logout(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stale session, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	sessions := &stubSessionManager{
		resolveFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "session-token" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{Email: "a@b.com"}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, sessions, cookieName, time.Hour)

	c, rec := newTestContext(t, http.MethodGet, "/auth/profile", "")
	c.Request().AddCookie(&http.Cookie{Name: cookieName, Value: "session-token"})
	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "a@b.com") {
		t.Fatalf("expected email in body: %s", rec.Body.String())
	}

	c, _ = newTestContext(t, http.MethodGet, "/auth/profile", "")
	if err := h.Profile(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without cookie, got %v", err)
	}
}

func TestAuthHandler_Profile_FilterResolvedPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessionManager{}, cookieName, time.Hour)

	// When the auth filter already resolved the user, no cookie is needed.
	c, rec := newTestContext(t, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.UserContextKey, &domain.User{Email: "a@b.com"})
	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "a@b.com") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_ResetPasswordToken(t *testing.T) {
	svc := &stubAuthService{
		resetTokenFn: func(_ context.Context, email string) (string, error) {
			if email != "a@b.com" {
				return "", domain.ErrUserNotFound
			}
			return "reset-token", nil
		},
	}
	h := NewAuthHandler(svc, &stubSessionManager{}, cookieName, time.Hour)

	c, rec := newTestContext(t, http.MethodPost, "/auth/reset_password", `{"email":"a@b.com"}`)
	if err := h.ResetPasswordToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reset-token") {
		t.Fatalf("expected token in body: %s", rec.Body.String())
	}

	// Unknown emails answer 403, not 404.
	c, _ = newTestContext(t, http.MethodPost, "/auth/reset_password", `{"email":"ghost@b.com"}`)
	if err := h.ResetPasswordToken(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	svc := &stubAuthService{
		updatePasswordFn: func(_ context.Context, resetToken, newPassword string) error {
			if resetToken != "reset-token" {
				return domain.ErrUserNotFound
			}
			return nil
		},
	}
	h := NewAuthHandler(svc, &stubSessionManager{}, cookieName, time.Hour)

	body := `{"email":"a@b.com","reset_token":"reset-token","new_password":"newpassword"}`
	c, rec := newTestContext(t, http.MethodPut, "/auth/reset_password", body)
	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body = `{"email":"a@b.com","reset_token":"bad","new_password":"newpassword"}`
	c, _ = newTestContext(t, http.MethodPut, "/auth/reset_password", body)
	if err := h.UpdatePassword(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown token, got %v", err)
	}
}
