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

// UserRepository persists global users in the shared schema.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByEmail and FindByID return nil, nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a repository over the shared schema session.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := r.db.WithContext(ctx).Create(user).Error
	return translate(err, "create user", "email is already registered")
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return userOrNil(&user, err)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return userOrNil(&user, err)
}

func userOrNil(user *model.User, err error) (*model.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err, "find user", "")
	}
	return user, nil
}
