package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/repository"
)

// ResourceHandler serves CRUD for one tenant table. Every call runs against the schema
// session bound by the tenant middleware.
type ResourceHandler[T any] struct {
	store      *repository.Store[T]
	numericKey bool
}

// NewResourceHandler creates a handler over store. numericKey rejects non-numeric ids before
// they reach the database.
func NewResourceHandler[T any](store *repository.Store[T], numericKey bool) *ResourceHandler[T] {
	return &ResourceHandler[T]{store: store, numericKey: numericKey}
}

// Register mounts the CRUD routes on g
func (h *ResourceHandler[T]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ResourceHandler[T]) List(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.store.List(c.Request().Context(), db, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler[T]) Get(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	key, err := h.key(c)
	if err != nil {
		return respondError(c, err)
	}

	item, err := h.store.Get(c.Request().Context(), db, key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}

	item := new(T)
	if err := bindAndValidate(c, item); err != nil {
		return respondError(c, err)
	}

	if err := h.store.Create(c.Request().Context(), db, item); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ResourceHandler[T]) Update(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	key, err := h.key(c)
	if err != nil {
		return respondError(c, err)
	}

	item := new(T)
	if err := bindAndValidate(c, item); err != nil {
		return respondError(c, err)
	}

	updated, err := h.store.Update(c.Request().Context(), db, key, item)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	db, err := middleware.TenantDB(c)
	if err != nil {
		return respondError(c, apperror.Infrastructure("tenant session missing", err))
	}
	key, err := h.key(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.store.Delete(c.Request().Context(), db, key); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResourceHandler[T]) key(c echo.Context) (string, error) {
	key := c.Param("id")
	if h.numericKey {
		if _, err := strconv.ParseUint(key, 10, 32); err != nil {
			return "", apperror.Validation("invalid "+h.store.Resource()+" id", err)
		}
	}
	return key, nil
}

// parsePage reads limit and offset query parameters
func parsePage(c echo.Context) (repository.Page, error) {
	var page repository.Page
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return page, apperror.Validation("limit must be a non-negative integer", err)
		}
		page.Limit = limit
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, apperror.Validation("offset must be a non-negative integer", err)
		}
		page.Offset = offset
	}
	return page.Normalize(), nil
}
