package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/service"
)

// AuthHandler serves registration, login and the current user profile
type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates the user and returns a token, optionally bound to a tenant
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := h.users.Authenticate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.Claims(c)
	if claims == nil {
		return respondError(c, apperror.Unauthorized("authentication required"))
	}

	user, err := h.users.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":        user,
		"tenant_id":   claims.TenantID,
		"schema_name": claims.SchemaName,
	})
}
