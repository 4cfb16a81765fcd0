package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/policy"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
)

// UserHandler serves single-user reads and deletes. Both operations are
// restricted to admins and the account owner; the target is looked up
// before the policy check so an unknown id is a 404 regardless of caller.
type UserHandler struct {
	Users repository.UserStore
}

func NewUserHandler(users repository.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.CanAccessUser(principal, target.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to access this user"})
	}
	return c.JSON(http.StatusOK, newUserDTO(target))
}

// Delete handles DELETE /users/:id/delete. Removing a user also removes
// every booking they own (cascaded in the store).
func (h *UserHandler) Delete(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.CanAccessUser(principal, target.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to delete this user"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
