package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/prometheus"
	"gorm.io/gorm"
)

// TenantRepository persists the tenant registry in the shared schema.
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	// CreateWithOwner inserts the tenant and an owner membership for ownerID in one transaction.
	CreateWithOwner(ctx context.Context, tenant *model.Tenant, ownerID uuid.UUID) error
	List(ctx context.Context) ([]model.Tenant, error)
	// FindByID returns nil, nil when the tenant does not exist.
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
	// MarkProvisioned moves a registered tenant to provisioned. It returns a Conflict error
	// when the row is not in the registered state.
	MarkProvisioned(ctx context.Context, id uint, at time.Time) error
	// CountByStatus returns the number of tenants per status.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type gormTenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a repository over the shared schema session.
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &gormTenantRepository{db: db}
}

func (r *gormTenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := r.db.WithContext(ctx).Create(tenant).Error
	return translate(err, "create tenant", "schema_name is already registered")
}

func (r *gormTenantRepository) CreateWithOwner(ctx context.Context, tenant *model.Tenant, ownerID uuid.UUID) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return translate(err, "create tenant", "schema_name is already registered")
		}
		owner := &model.UserTenant{UserID: ownerID, TenantID: tenant.ID, Role: model.TenantRoleOwner}
		if err := tx.Create(owner).Error; err != nil {
			return translate(err, "add tenant owner", "tenant owner is already registered")
		}
		return nil
	})
}

func (r *gormTenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenants []model.Tenant
	if err := r.db.WithContext(ctx).Order("id").Find(&tenants).Error; err != nil {
		return nil, translate(err, "list tenants", "")
	}
	return tenants, nil
}

func (r *gormTenantRepository) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	err := r.db.WithContext(ctx).First(&tenant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err, "find tenant", "")
	}
	return &tenant, nil
}

func (r *gormTenantRepository) MarkProvisioned(ctx context.Context, id uint, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("id = ? AND status = ?", id, model.TenantStatusRegistered).
		Updates(map[string]interface{}{
			"status":         model.TenantStatusProvisioned,
			"provisioned_at": at,
		})
	if result.Error != nil {
		return translate(result.Error, "mark tenant provisioned", "")
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("tenant is not in the registered state", nil)
	}
	return nil
}

func (r *gormTenantRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Select("status, count(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count tenants", "")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
