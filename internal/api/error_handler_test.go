package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := newHTTPErrorHandler(zerolog.Nop(), func() time.Time { return fixed })

	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrDuplicateUsername, http.StatusConflict, "Username already exists"},
		{domain.ErrDuplicateEmail, http.StatusConflict, "Email already exists"},
		{domain.ErrUserNotFound, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("%w: unknown subject", domain.ErrTokenInvalid), http.StatusUnauthorized, "invalid token"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrStudentNotFound, http.StatusNotFound, "student not found"},
		{echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		h(tt.err, c)

		if rec.Code != tt.code {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.code, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%v: invalid json: %v", tt.err, err)
		}
		if resp.Status != tt.code || resp.Message != tt.msg || !resp.Timestamp.Equal(fixed) {
			t.Fatalf("%v: unexpected envelope %+v", tt.err, resp)
		}
	}
}

func TestHTTPErrorHandler_ValidationMap(t *testing.T) {
	h := NewHTTPErrorHandler(zerolog.Nop())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	ve := &domain.ValidationError{}
	ve.Add("email", "Invalid Email address")
	ve.Add("password", "Password is required")
	h(ve, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var fields map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(fields) != 2 || fields["email"] != "Invalid Email address" {
		t.Fatalf("unexpected body %v", fields)
	}
}

func TestHTTPErrorHandler_UnknownUserAndBadPasswordLookAlike(t *testing.T) {
	h := newHTTPErrorHandler(zerolog.Nop(), func() time.Time { return time.Unix(0, 0) })

	render := func(err error) string {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), rec)
		h(err, c)
		return fmt.Sprintf("%d %s", rec.Code, rec.Body.String())
	}

	if a, b := render(domain.ErrUserNotFound), render(domain.ErrInvalidCredentials); a != b {
		t.Fatalf("responses differ:\n%s\n%s", a, b)
	}
}
