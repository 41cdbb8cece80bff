package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/service"
)

// OperatorHandler serves the operators of the request's tenant
type OperatorHandler struct {
	operators *service.OperatorService
}

func NewOperatorHandler(operators *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operators: operators}
}

// Register mounts the operator routes on g
func (h *OperatorHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *OperatorHandler) List(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	operators, err := h.operators.List(c.Request().Context(), db, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, operators)
}

func (h *OperatorHandler) Get(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	id, err := parseOperatorID(c)
	if err != nil {
		return respondError(c, err)
	}

	operator, err := h.operators.Get(c.Request().Context(), db, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, operator)
}

func (h *OperatorHandler) Create(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}

	var req service.OperatorInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	operator, err := h.operators.Create(c.Request().Context(), db, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, operator)
}

func (h *OperatorHandler) Update(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	id, err := parseOperatorID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.OperatorInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	operator, err := h.operators.Update(c.Request().Context(), db, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, operator)
}

func (h *OperatorHandler) Delete(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	id, err := parseOperatorID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.operators.Delete(c.Request().Context(), db, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseOperatorID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid operator id", err)
	}
	return id, nil
}
