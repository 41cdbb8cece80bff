package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sales order status codes
const (
	SalesOrderOpen      = "O"
	SalesOrderInvoiced  = "F"
	SalesOrderCancelled = "C"
)

// SalesOrder is the header of a sale
type SalesOrder struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	OrderDate     time.Time        `json:"order_date" gorm:"type:date;not null"`
	Notes         string           `json:"notes" gorm:"type:varchar(200);not null"`
	Total         decimal.Decimal  `json:"total" gorm:"type:numeric(10,2);not null"`
	CustomerName  *string          `json:"customer_name" gorm:"type:varchar(255)"`
	Discount      *decimal.Decimal `json:"discount" gorm:"type:numeric(10,2)"`
	Freight       *decimal.Decimal `json:"freight" gorm:"type:numeric(10,2)"`
	PaymentMethod *string          `json:"payment_method" gorm:"type:varchar(50)"`
	Status        *string          `json:"status" gorm:"type:varchar(1)"`
	CreatedBy     *uuid.UUID       `json:"created_by" gorm:"type:uuid"`
	Items         []SalesOrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// SalesOrderItem is one line of a sales order
type SalesOrderItem struct {
	SequenceNumber uint             `json:"sequence_number" gorm:"primaryKey"`
	OrderID        uint             `json:"order_id" gorm:"not null;index"`
	ProductID      uint             `json:"product_id" gorm:"not null"`
	Barcode        *string          `json:"barcode" gorm:"type:varchar(255)"`
	ItemNumber     *int             `json:"item_number"`
	Quantity       *int             `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price" gorm:"type:numeric(28,8);not null"`
	SalePrice      *decimal.Decimal `json:"sale_price" gorm:"type:numeric(28,8)"`
	Discount       *decimal.Decimal `json:"discount" gorm:"type:numeric(38,2)"`
	SubTotal       decimal.Decimal  `json:"sub_total" gorm:"type:numeric(28,8);not null"`
	Product        *Product         `json:"-" gorm:"foreignKey:ProductID"`
}
