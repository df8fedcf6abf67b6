package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

// Client-facing messages for authentication failures. Every 401 except a
// missing credential shares one message so callers cannot tell why a token
// was refused.
const (
	msgMissingCredential = "missing or malformed authorization header"
	msgInvalidToken      = "invalid or expired token"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes, logs unexpected ones, and renders {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, msgMissingCredential
	case errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrPrincipalNotFound),
		errors.Is(err, domain.ErrStaleCredential):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, domain.ErrAccountSuspended):
		return http.StatusForbidden, "account suspended"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrBlogNotFound):
		return http.StatusNotFound, "blog not found"
	case errors.Is(err, domain.ErrCommentNotFound):
		return http.StatusNotFound, "comment not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already taken"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyPassword):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
