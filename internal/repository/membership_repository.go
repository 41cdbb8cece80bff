package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/prometheus"
	"gorm.io/gorm"
)

// MembershipRepository records which users may work in which tenants.
type MembershipRepository interface {
	Add(ctx context.Context, membership *model.UserTenant) error
	// Find returns nil, nil when the user is not a member of the tenant.
	Find(ctx context.Context, userID uuid.UUID, tenantID uint) (*model.UserTenant, error)
}

type gormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a repository over the shared schema session.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &gormMembershipRepository{db: db}
}

func (r *gormMembershipRepository) Add(ctx context.Context, membership *model.UserTenant) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := r.db.WithContext(ctx).Create(membership).Error
	return translate(err, "add tenant member", "user is already a member of this tenant")
}

func (r *gormMembershipRepository) Find(ctx context.Context, userID uuid.UUID, tenantID uint) (*model.UserTenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var membership model.UserTenant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err, "find tenant member", "")
	}
	return &membership, nil
}
