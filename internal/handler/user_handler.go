package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"intrak/internal/auth"
	apperrors "intrak/internal/errors"
	"intrak/internal/model"
	"intrak/internal/service"
)

// UserHandler serves profile reads for authenticated callers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.ErrTokenMissing
	}
	user, err := h.svc.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser godoc
// @Summary Get user by id
// @Description Coordinators may read any profile; other roles only their own.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid id")
	}
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.ErrTokenMissing
	}
	if claims.Role != model.RoleCoordinator && claims.UserID != id {
		return apperrors.ErrForbidden
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PublicUser
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
