package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/service"
)

// SalesOrderHandler serves sales orders of the request's tenant
type SalesOrderHandler struct {
	orders *service.SalesOrderService
}

func NewSalesOrderHandler(orders *service.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders}
}

// Register mounts the sales order routes on g
func (h *SalesOrderHandler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

func (h *SalesOrderHandler) Create(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}

	var req service.CreateSalesOrderInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	var createdBy *uuid.UUID
	if claims := middleware.Claims(c); claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			createdBy = &id
		}
	}

	order, err := h.orders.Create(c.Request().Context(), db, createdBy, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *SalesOrderHandler) List(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	orders, err := h.orders.List(c.Request().Context(), db, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *SalesOrderHandler) Get(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	id, err := parseID(c, "sales order")
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.Get(c.Request().Context(), db, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
