package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// UserHandler handles self-service account management. Every route runs
// behind the Auth middleware and operates on the token's own account.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Update patches the profile fields of the current account.
//
// @Summary      Update the current account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/me [patch]
func (h *UserHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.userService.UpdateAccount(c.Request().Context(), user.ID, ports.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusConflict, "username already registered")
		case errors.Is(err, domain.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		default:
			return err
		}
	}

	metrics.AccountEventsTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// ChangePassword rotates the password after re-checking the current one.
//
// @Summary      Change the current account's password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "Current and new password"
// @Success      204   "password changed"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
		}
		return err
	}

	metrics.AccountEventsTotal.WithLabelValues("password_changed").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Deactivate disables the current account. Outstanding tokens keep decoding
// but stop resolving, so the response body is the last view of the account
// the caller will get with this token.
//
// @Summary      Deactivate the current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/me/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	deactivated, err := h.userService.Deactivate(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	metrics.AccountEventsTotal.WithLabelValues("deactivated").Inc()
	return c.JSON(http.StatusOK, toUserResponse(deactivated))
}

// Delete removes the current account permanently.
//
// @Summary      Delete the current account
// @Tags         users
// @Security     BearerAuth
// @Success      204  "account deleted"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/me [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		return err
	}

	metrics.AccountEventsTotal.WithLabelValues("deleted").Inc()
	return c.NoContent(http.StatusNoContent)
}
