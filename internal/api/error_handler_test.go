package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrMissingCredential, http.StatusUnauthorized, msgMissingCredential},
		{domain.ErrInvalidCredential, http.StatusUnauthorized, msgInvalidToken},
		{domain.ErrPrincipalNotFound, http.StatusUnauthorized, msgInvalidToken},
		{domain.ErrStaleCredential, http.StatusUnauthorized, msgInvalidToken},
		{domain.ErrAccountSuspended, http.StatusForbidden, "account suspended"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "invalid email or password"},
		{domain.ErrBlogNotFound, http.StatusNotFound, "blog not found"},
		{domain.ErrEmailTaken, http.StatusConflict, "email already taken"},
		{echo.NewHTTPError(http.StatusBadRequest, "name is required"), http.StatusBadRequest, "name is required"},
		{errors.New("load principal: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
		})
	}
}
