package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/prometheus"
	"gorm.io/gorm"
)

// SalesOrderRepository stores orders together with their items in a tenant schema.
type SalesOrderRepository struct{}

func NewSalesOrderRepository() *SalesOrderRepository {
	return &SalesOrderRepository{}
}

// Create inserts the order and its items in one transaction. Every item must reference an
// existing, non-deleted product.
func (r *SalesOrderRepository) Create(ctx context.Context, db *gorm.DB, order *model.SalesOrder) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(order.Items))
		seen := make(map[uint]struct{}, len(order.Items))
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}

		var found int64
		if err := tx.Model(&model.Product{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return translate(err, "check order products", "")
		}
		if found != int64(len(ids)) {
			return apperror.Validation(fmt.Sprintf("%d of %d products in the order do not exist", int64(len(ids))-found, len(ids)), nil)
		}

		if err := tx.Create(order).Error; err != nil {
			return translate(err, "create sales order", "sales order already exists")
		}
		return nil
	})
}

func (r *SalesOrderRepository) Get(ctx context.Context, db *gorm.DB, id uint) (*model.SalesOrder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var order model.SalesOrder
	err := db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("item_number, sequence_number") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("sales order not found")
		}
		return nil, translate(err, "get sales order", "")
	}
	return &order, nil
}

func (r *SalesOrderRepository) List(ctx context.Context, db *gorm.DB, page Page) ([]model.SalesOrder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	page = page.Normalize()
	orders := make([]model.SalesOrder, 0)
	err := db.WithContext(ctx).
		Order("order_date DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "list sales orders", "")
	}
	return orders, nil
}
