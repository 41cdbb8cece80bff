package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/cache"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/internal/tenancy"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"github.com/suteetoe/retail-backend/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const maxTenantNameLength = 60

// SchemaProvisioner performs the DDL steps of provisioning. *tenancy.Provisioner implements it.
type SchemaProvisioner interface {
	CreateSchema(ctx context.Context, name string) error
	MigrateTables(ctx context.Context, name string) error
	DropSchema(ctx context.Context, name string) error
}

// CreateTenantInput is the payload for registering a tenant. OwnerID is set from the caller's
// token, not from the body; the owner becomes the tenant's first member.
type CreateTenantInput struct {
	Name       *string    `json:"name" validate:"omitempty,max=60"`
	SchemaName string     `json:"schema_name" validate:"required"`
	OwnerID    *uuid.UUID `json:"-"`
}

// TenantService manages the tenant registry and schema provisioning
type TenantService struct {
	tenants      repository.TenantRepository
	provisioner  SchemaProvisioner
	cache        cache.TenantCache
	sharedSchema string
	now          func() time.Time
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenants repository.TenantRepository,
	provisioner SchemaProvisioner,
	tenantCache cache.TenantCache,
	sharedSchema string,
) *TenantService {
	if tenantCache == nil {
		tenantCache = cache.NopTenantCache{}
	}
	return &TenantService{
		tenants:      tenants,
		provisioner:  provisioner,
		cache:        tenantCache,
		sharedSchema: sharedSchema,
		now:          time.Now,
	}
}

// CreateTenant registers a tenant. The schema is not created until ProvisionTenant runs.
func (s *TenantService) CreateTenant(ctx context.Context, input CreateTenantInput) (*model.Tenant, error) {
	if err := tenancy.ValidateTenantSchemaName(input.SchemaName, s.sharedSchema); err != nil {
		return nil, apperror.Validation(err.Error(), err)
	}
	if input.Name != nil && utf8.RuneCountInString(*input.Name) > maxTenantNameLength {
		return nil, apperror.Validation(fmt.Sprintf("name must be at most %d characters", maxTenantNameLength), nil)
	}

	tenant := &model.Tenant{
		Name:       input.Name,
		SchemaName: input.SchemaName,
		Status:     model.TenantStatusRegistered,
	}
	var err error
	if input.OwnerID != nil {
		err = s.tenants.CreateWithOwner(ctx, tenant, *input.OwnerID)
	} else {
		err = s.tenants.Create(ctx, tenant)
	}
	if err != nil {
		return nil, err
	}

	prometheus.RecordTenantOperation("create")
	log := logger.FromContext(ctx).With(zap.Uint("tenant_id", tenant.ID), zap.String("schema_name", tenant.SchemaName))
	if input.OwnerID != nil {
		log = log.With(zap.String("owner_id", input.OwnerID.String()))
	}
	log.Info("Created tenant")

	return tenant, nil
}

// ListTenants returns every registered tenant in insertion order
func (s *TenantService) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	prometheus.RecordTenantOperation("list")
	return tenants, nil
}

// GetTenant looks a tenant up by id, using the cache if available. Only provisioned tenants are cached.
func (s *TenantService) GetTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	log := logger.FromContext(ctx)

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warn("Tenant cache lookup failed", zap.Uint("tenant_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NotFound("tenant not found")
	}

	// provisioned is terminal; a registered row may change under a concurrent ProvisionTenant
	if tenant.IsProvisioned() {
		if err := s.cache.Set(ctx, tenant); err != nil {
			log.Warn("Failed to cache tenant", zap.Uint("tenant_id", id), zap.Error(err))
		}
	}
	prometheus.RecordTenantOperation("get")
	return tenant, nil
}

// ProvisionTenant creates the tenant's schema and table set, then marks the registry row
// provisioned. A failure after the schema was created drops it again.
func (s *TenantService) ProvisionTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	log := logger.FromContext(ctx).With(zap.Uint("tenant_id", id))

	// the registry is read directly: a cached row may carry a stale status
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NotFound("tenant not found")
	}
	if tenant.IsProvisioned() {
		prometheus.RecordProvisioningFailure(apperror.KindConflict.String())
		return nil, apperror.Conflict("tenant schema is already provisioned", nil)
	}

	defer prometheus.TrackProvisioning()(time.Now())
	log = log.With(zap.String("schema_name", tenant.SchemaName))

	if err := s.provisioner.CreateSchema(ctx, tenant.SchemaName); err != nil {
		return nil, s.fail(log, schemaError(err))
	}

	if err := s.provisioner.MigrateTables(ctx, tenant.SchemaName); err != nil {
		return nil, s.fail(log, s.compensate(ctx, log, tenant,
			apperror.Infrastructure("failed to create tenant tables", err)))
	}

	provisionedAt := s.now().UTC()
	if err := s.tenants.MarkProvisioned(ctx, tenant.ID, provisionedAt); err != nil {
		return nil, s.fail(log, s.compensate(ctx, log, tenant, err))
	}

	if err := s.cache.Delete(ctx, tenant.ID); err != nil {
		log.Warn("Failed to invalidate tenant cache", zap.Error(err))
	}

	tenant.Status = model.TenantStatusProvisioned
	tenant.ProvisionedAt = &provisionedAt

	prometheus.RecordTenantOperation("provision")
	log.Info("Provisioned tenant schema")
	return tenant, nil
}

// RefreshTenantGauge publishes the number of tenants per status.
func (s *TenantService) RefreshTenantGauge(ctx context.Context) error {
	counts, err := s.tenants.CountByStatus(ctx)
	if err != nil {
		return err
	}
	prometheus.UpdateTenantCounts(counts[model.TenantStatusRegistered], counts[model.TenantStatusProvisioned])
	return nil
}

// compensate drops the schema created earlier in this call. The provisioning failure is returned;
// when the drop fails too both causes are kept.
func (s *TenantService) compensate(ctx context.Context, log *zap.Logger, tenant *model.Tenant, cause error) error {
	log.Warn("Provisioning failed, dropping schema", zap.Error(cause))

	dropErr := s.provisioner.DropSchema(context.WithoutCancel(ctx), tenant.SchemaName)
	if dropErr == nil {
		return cause
	}

	log.Error("Failed to drop schema after provisioning failure", zap.Error(dropErr))
	return apperror.Infrastructure("failed to provision tenant schema and clean up", multierr.Append(cause, dropErr))
}

func (s *TenantService) fail(log *zap.Logger, err error) error {
	kind := apperror.KindOf(err)
	prometheus.RecordProvisioningFailure(kind.String())
	if kind == apperror.KindInfrastructure {
		log.Error("Failed to provision tenant schema", zap.Error(err))
	}
	return err
}

func schemaError(err error) error {
	switch {
	case errors.Is(err, tenancy.ErrSchemaExists):
		return apperror.Conflict("schema already exists", err)
	case errors.Is(err, tenancy.ErrInvalidSchemaName):
		return apperror.Validation("invalid schema name", err)
	case errors.Is(err, tenancy.ErrInsufficientPrivilege):
		return apperror.Infrastructure("insufficient privilege to create schema", err)
	default:
		return apperror.Infrastructure("failed to create schema", err)
	}
}
