package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/api/metrics"
	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
)

// Authenticator resolves the Authorization header to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) auth.Decision
}

// Authenticate runs the authentication stage. On success the principal is
// attached to the request context; otherwise the rejection reason is returned
// for the HTTP error handler to render.
func Authenticate(gate Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			decision := gate.Authenticate(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if !decision.Allowed() {
				reason := decision.Reason()
				metrics.AuthRejectionsTotal.WithLabelValues(reasonLabel(reason)).Inc()
				return reason
			}

			c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), decision.Principal())))
			return next(c)
		}
	}
}

// reasonLabel maps a rejection to its metric label.
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return "principal_not_found"
	case errors.Is(err, domain.ErrStaleCredential):
		return "stale_credential"
	case errors.Is(err, domain.ErrAccountSuspended):
		return "account_suspended"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
