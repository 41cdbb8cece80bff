package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/middleware"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/service"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TenantService is the registry behaviour the tenant API needs
type TenantService interface {
	CreateTenant(ctx context.Context, input service.CreateTenantInput) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)
	GetTenant(ctx context.Context, id uint) (*model.Tenant, error)
	ProvisionTenant(ctx context.Context, id uint) (*model.Tenant, error)
}

// TenantHandler serves the tenant registry API
type TenantHandler struct {
	tenants TenantService
	limiter *rate.Limiter
}

// NewTenantHandler creates a tenant handler. limiter throttles schema provisioning; nil disables it.
func NewTenantHandler(tenants TenantService, limiter *rate.Limiter) *TenantHandler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &TenantHandler{tenants: tenants, limiter: limiter}
}

// Register mounts the tenant routes on g
func (h *TenantHandler) Register(g *echo.Group) {
	g.POST("/", h.CreateTenant)
	g.GET("/", h.ListTenants)
	g.GET("/:id", h.GetTenant)
	g.POST("/:id/create_schema", h.CreateSchema)
}

// CreateTenant handles tenant registration. An authenticated caller becomes the tenant's owner.
func (h *TenantHandler) CreateTenant(c echo.Context) error {
	var req service.CreateTenantInput
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	if claims := middleware.Claims(c); claims != nil {
		ownerID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return respondError(c, apperror.Unauthorized("invalid user id in token"))
		}
		req.OwnerID = &ownerID
	}

	tenant, err := h.tenants.CreateTenant(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tenant)
}

// ListTenants returns every tenant in the registry
func (h *TenantHandler) ListTenants(c echo.Context) error {
	tenants, err := h.tenants.ListTenants(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenants)
}

// GetTenant retrieves tenant details
func (h *TenantHandler) GetTenant(c echo.Context) error {
	id, err := parseID(c, "tenant")
	if err != nil {
		return respondError(c, err)
	}

	tenant, err := h.tenants.GetTenant(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// CreateSchema provisions the tenant's schema and table set
func (h *TenantHandler) CreateSchema(c echo.Context) error {
	id, err := parseID(c, "tenant")
	if err != nil {
		return respondError(c, err)
	}

	if !h.limiter.Allow() {
		logger.FromEcho(c).Warn("Provisioning throttled", zap.Uint("tenant_id", id))
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many provisioning requests, retry later"})
	}

	tenant, err := h.tenants.ProvisionTenant(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}
