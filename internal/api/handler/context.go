package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/domain"
)

// principal returns the account attached by the Authenticate middleware.
// Routes calling it are always mounted behind that middleware.
func principal(c echo.Context) (*domain.Account, error) {
	p, ok := auth.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrMissingCredential
	}
	return p, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
