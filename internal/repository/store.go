package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/prometheus"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page bounds a list query
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to the allowed range
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Store is CRUD over one tenant table. It holds no session: every call receives the
// tenant-scoped *gorm.DB resolved for the current request.
type Store[T any] struct {
	resource  string
	keyColumn string
}

// NewStore creates a store for resource whose primary key column is keyColumn.
func NewStore[T any](resource, keyColumn string) *Store[T] {
	return &Store[T]{resource: resource, keyColumn: keyColumn}
}

// Resource returns the resource name used in messages
func (s *Store[T]) Resource() string {
	return s.resource
}

func (s *Store[T]) List(ctx context.Context, db *gorm.DB, page Page) ([]T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	page = page.Normalize()
	items := make([]T, 0)
	err := db.WithContext(ctx).
		Order(s.keyColumn).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "list "+s.resource, "")
	}
	return items, nil
}

func (s *Store[T]) Get(ctx context.Context, db *gorm.DB, key string) (*T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	item := new(T)
	err := db.WithContext(ctx).Where(s.keyColumn+" = ?", key).First(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(s.resource + " not found")
		}
		return nil, translate(err, "get "+s.resource, "")
	}
	return item, nil
}

func (s *Store[T]) Create(ctx context.Context, db *gorm.DB, item *T) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	err := db.WithContext(ctx).Create(item).Error
	return translate(err, "create "+s.resource, s.resource+" already exists")
}

// Update overwrites every column except the key with the values in item.
func (s *Store[T]) Update(ctx context.Context, db *gorm.DB, key string, item *T) (*T, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := db.WithContext(ctx).
		Model(new(T)).
		Where(s.keyColumn+" = ?", key).
		Select("*").
		Omit(s.keyColumn, "created_at", "deleted_at").
		Updates(item)
	if result.Error != nil {
		return nil, translate(result.Error, "update "+s.resource, s.resource+" already exists")
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound(s.resource + " not found")
	}
	return s.Get(ctx, db, key)
}

func (s *Store[T]) Delete(ctx context.Context, db *gorm.DB, key string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := db.WithContext(ctx).Where(s.keyColumn+" = ?", key).Delete(new(T))
	if result.Error != nil {
		return translate(result.Error, "delete "+s.resource, "")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(s.resource + " not found")
	}
	return nil
}
