package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "invalid credentials", err: domain.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "forbidden", err: domain.ErrForbidden, wantCode: http.StatusForbidden},
		{name: "user not found", err: domain.ErrUserNotFound, wantCode: http.StatusNotFound},
		{name: "user exists", err: domain.ErrUserExists, wantCode: http.StatusConflict},
		{name: "wrapped sentinel", err: errors.Join(errors.New("find user"), domain.ErrUserNotFound), wantCode: http.StatusNotFound},
		{name: "echo error passes through", err: echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized"), wantCode: http.StatusUnauthorized},
		{name: "contract violation stays internal", err: domain.ErrInvalidCriteria, wantCode: http.StatusInternalServerError},
		{name: "unknown error stays internal", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if tt.wantCode == http.StatusInternalServerError && body["error"] != "internal server error" {
				t.Fatalf("internal detail leaked: %s", body["error"])
			}
		})
	}
}
