package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SalesOrderItemInput is one requested order line
type SalesOrderItemInput struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Barcode   *string          `json:"barcode" validate:"omitempty,max=255"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal  `json:"unit_price" validate:"min=0"`
	SalePrice *decimal.Decimal `json:"sale_price" validate:"omitempty,min=0"`
	Discount  *decimal.Decimal `json:"discount" validate:"omitempty,min=0"`
}

// CreateSalesOrderInput is the payload for creating a sales order. Totals are computed from the items.
type CreateSalesOrderInput struct {
	OrderDate     *time.Time            `json:"order_date"`
	Notes         string                `json:"notes" validate:"max=200"`
	CustomerName  *string               `json:"customer_name" validate:"omitempty,max=255"`
	Discount      *decimal.Decimal      `json:"discount" validate:"omitempty,min=0"`
	Freight       *decimal.Decimal      `json:"freight" validate:"omitempty,min=0"`
	PaymentMethod *string               `json:"payment_method" validate:"omitempty,max=50"`
	Items         []SalesOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// SalesOrderStore is the persistence used by SalesOrderService
type SalesOrderStore interface {
	Create(ctx context.Context, db *gorm.DB, order *model.SalesOrder) error
	Get(ctx context.Context, db *gorm.DB, id uint) (*model.SalesOrder, error)
	List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.SalesOrder, error)
}

// SalesOrderService creates and reads sales orders in the caller's tenant schema
type SalesOrderService struct {
	orders SalesOrderStore
	now    func() time.Time
}

// NewSalesOrderService creates a new sales order service
func NewSalesOrderService(orders SalesOrderStore) *SalesOrderService {
	return &SalesOrderService{orders: orders, now: time.Now}
}

// Create builds the order from input, computes its totals and stores it with its items.
func (s *SalesOrderService) Create(ctx context.Context, db *gorm.DB, createdBy *uuid.UUID, input CreateSalesOrderInput) (*model.SalesOrder, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Validation("a sales order needs at least one item", nil)
	}

	orderDate := s.now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}
	status := model.SalesOrderOpen

	order := &model.SalesOrder{
		OrderDate:     orderDate,
		Notes:         input.Notes,
		CustomerName:  input.CustomerName,
		Discount:      input.Discount,
		Freight:       input.Freight,
		PaymentMethod: input.PaymentMethod,
		Status:        &status,
		CreatedBy:     createdBy,
		Items:         make([]model.SalesOrderItem, 0, len(input.Items)),
	}
	for i, in := range input.Items {
		itemNumber := i + 1
		quantity := in.Quantity
		order.Items = append(order.Items, model.SalesOrderItem{
			ProductID:  in.ProductID,
			Barcode:    in.Barcode,
			ItemNumber: &itemNumber,
			Quantity:   &quantity,
			UnitPrice:  in.UnitPrice,
			SalePrice:  in.SalePrice,
			Discount:   in.Discount,
		})
	}

	if err := computeTotals(order); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, db, order); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Created sales order",
		zap.Uint("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Stringer("total", order.Total))
	return order, nil
}

func (s *SalesOrderService) Get(ctx context.Context, db *gorm.DB, id uint) (*model.SalesOrder, error) {
	return s.orders.Get(ctx, db, id)
}

func (s *SalesOrderService) List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.SalesOrder, error) {
	return s.orders.List(ctx, db, page)
}

// computeTotals sets each item's sub total to quantity * unit price - discount and the order
// total to the sum of sub totals - order discount + freight. Amounts are rounded half away from
// zero to cents, so the stored total always equals the stored sub totals.
func computeTotals(order *model.SalesOrder) error {
	sum := decimal.Zero
	for i := range order.Items {
		item := &order.Items[i]
		quantity := int64(0)
		if item.Quantity != nil {
			quantity = int64(*item.Quantity)
		}

		subTotal := decimal.NewFromInt(quantity).Mul(item.UnitPrice).Sub(valueOrZero(item.Discount)).Round(centPlaces)
		if subTotal.IsNegative() {
			return apperror.Validation("item discount exceeds the line amount", nil)
		}
		item.SubTotal = subTotal
		sum = sum.Add(subTotal)
	}

	total := sum.Sub(valueOrZero(order.Discount)).Add(valueOrZero(order.Freight)).Round(centPlaces)
	if total.IsNegative() {
		return apperror.Validation("order discount exceeds the order amount", nil)
	}
	order.Total = total
	return nil
}

const centPlaces = 2

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
