package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TenantHeader = "X-Tenant-ID"

	tenantKey   = "tenant"
	tenantDBKey = "tenant_db"
)

// TenantLookup resolves a tenant by id.
type TenantLookup interface {
	GetTenant(ctx context.Context, id uint) (*model.Tenant, error)
}

// MembershipChecker reports whether a user may work in a tenant. *service.UserService implements it.
type MembershipChecker interface {
	CheckMembership(ctx context.Context, userID string, tenantID uint) error
}

// SchemaResolver returns a session bound to one schema.
type SchemaResolver interface {
	For(schemaName string) (*gorm.DB, error)
}

// TenantMiddleware selects the tenant for the request and binds its schema session to the
// context. The tenant comes from the token claim, else from the X-Tenant-ID header; when both are
// present they must agree. A claim was checked for membership at login; a tenant chosen by header
// alone is checked here. Only provisioned tenants are accepted.
func TenantMiddleware(tenants TenantLookup, members MembershipChecker, resolver SchemaResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, fromHeader, err := requestedTenant(c)
			if err != nil {
				return abort(c, err)
			}

			ctx := c.Request().Context()
			tenant, err := tenants.GetTenant(ctx, tenantID)
			if err != nil {
				return abort(c, err)
			}
			if fromHeader {
				claims := Claims(c)
				if claims == nil {
					return abort(c, apperror.Unauthorized("authentication required"))
				}
				if err := members.CheckMembership(ctx, claims.UserID, tenant.ID); err != nil {
					return abort(c, err)
				}
			}
			if !tenant.IsProvisioned() {
				return abort(c, apperror.Conflict("tenant schema is not provisioned", nil))
			}

			db, err := resolver.For(tenant.SchemaName)
			if err != nil {
				return abort(c, apperror.Infrastructure("failed to open tenant session", err))
			}

			logger.With(c, zap.Uint("tenant_id", tenant.ID), zap.String("schema_name", tenant.SchemaName))
			c.Set(tenantKey, tenant)
			c.Set(tenantDBKey, db)

			return next(c)
		}
	}
}

// requestedTenant returns the selected tenant id and whether it came from the header alone.
func requestedTenant(c echo.Context) (uint, bool, error) {
	var headerID *uint
	if raw := c.Request().Header.Get(TenantHeader); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return 0, false, apperror.Validation("invalid "+TenantHeader+" header", err)
		}
		v := uint(id)
		headerID = &v
	}

	var claimID *uint
	if claims := Claims(c); claims != nil {
		claimID = claims.TenantID
	}

	switch {
	case claimID != nil && headerID != nil && *claimID != *headerID:
		return 0, false, apperror.Forbidden("tenant header does not match the token tenant")
	case claimID != nil:
		return *claimID, false, nil
	case headerID != nil:
		return *headerID, true, nil
	default:
		return 0, false, apperror.Validation("no tenant selected", nil)
	}
}

// Tenant returns the tenant bound by TenantMiddleware.
func Tenant(c echo.Context) *model.Tenant {
	tenant, _ := c.Get(tenantKey).(*model.Tenant)
	return tenant
}

// TenantDB returns the schema session bound by TenantMiddleware.
func TenantDB(c echo.Context) (*gorm.DB, error) {
	db, ok := c.Get(tenantDBKey).(*gorm.DB)
	if !ok {
		return nil, errors.New("tenant session is not bound to the request")
	}
	return db, nil
}

func abort(c echo.Context, err error) error {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInfrastructure {
		logger.FromEcho(c).Error("Tenant resolution failed", zap.Error(err))
	}
	return c.JSON(kind.StatusCode(), echo.Map{"error": apperror.PublicMessage(err)})
}
