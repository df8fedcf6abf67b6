package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/api/metrics"
	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
)

// OwnerExtractor returns the ids of every account owning the addressed
// resource. Its errors, such as a missing blog, are returned unchanged.
type OwnerExtractor func(c echo.Context) ([]string, error)

// Authorize runs an authorization stage after Authenticate.
func Authorize(policy auth.Policy, owners OwnerExtractor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := auth.PrincipalFrom(c.Request().Context())
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues(reasonLabel(domain.ErrMissingCredential)).Inc()
				return domain.ErrMissingCredential
			}

			var ownerIDs []string
			if owners != nil {
				ids, err := owners(c)
				if err != nil {
					return err
				}
				ownerIDs = ids
			}

			decision := policy.Authorize(principal, ownerIDs)
			if !decision.Allowed() {
				reason := decision.Reason()
				metrics.AuthRejectionsTotal.WithLabelValues(reasonLabel(reason)).Inc()
				return reason
			}
			return next(c)
		}
	}
}

// RequireRole admits only principals holding role.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return Authorize(auth.RoleOnly{Role: role}, nil)
}

// OwnerOrAdmin admits the resource owners and administrators.
func OwnerOrAdmin(owners OwnerExtractor) echo.MiddlewareFunc {
	return Authorize(auth.OwnerOrRole{Role: domain.RoleAdmin}, owners)
}
