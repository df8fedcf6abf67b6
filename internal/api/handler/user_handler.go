package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/blog-api/internal/core/ports"
)

// UserHandler serves account management routes.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// AccountOwner reports the addressed account as its own owner.
func AccountOwner(c echo.Context) ([]string, error) {
	return []string{c.Param("userId")}, nil
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Profile returns the caller's own account.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// AdminProfile returns the calling administrator's account.
//
// @Summary      Admin profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users/admin [get]
func (h *UserHandler) AdminProfile(c echo.Context) error {
	return h.Profile(c)
}

// Get returns one account.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  domain.Account
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update changes name, email or avatar. Role and password are not editable here.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string                true  "User ID"
// @Param        body    body      updateProfileRequest  true  "Profile fields"
// @Success      200     {object}  domain.Account
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /api/users/{userId} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), c.Param("userId"), ports.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  domain.Account
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	account, err := h.accounts.Delete(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Suspend blocks an account. Its tokens stop working on their next use.
//
// @Summary      Suspend user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string          true   "User ID"
// @Param        body    body      suspendRequest  false  "Suspension reason"
// @Success      200     {object}  domain.Account
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId}/suspend [post]
func (h *UserHandler) Suspend(c echo.Context) error {
	var req suspendRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	account, err := h.accounts.Suspend(c.Request().Context(), c.Param("userId"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Unsuspend reinstates an account.
//
// @Summary      Unsuspend user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  domain.Account
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId}/unsuspend [post]
func (h *UserHandler) Unsuspend(c echo.Context) error {
	account, err := h.accounts.Unsuspend(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/users/profile/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}
