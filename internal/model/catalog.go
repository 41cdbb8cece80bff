package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Department is the top level of the product hierarchy
type Department struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Description string  `json:"description" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	Reference   *string `json:"reference" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
}

// Section groups categories inside a department
type Section struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Description  *string     `json:"description" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Reference    *string     `json:"reference" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
	DepartmentID *uint       `json:"department_id"`
	Department   *Department `json:"-" gorm:"foreignKey:DepartmentID"`
}

// Category is the leaf of the product hierarchy
type Category struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Description string   `json:"description" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	SectionID   *uint    `json:"section_id"`
	Section     *Section `json:"-" gorm:"foreignKey:SectionID"`
}

// Unit of measure, keyed by its short code (e.g. "UN", "KG", "CX")
type Unit struct {
	Code        string `json:"code" gorm:"type:varchar(4);primaryKey" validate:"required,max=4"`
	Description string `json:"description" gorm:"type:varchar(60);not null" validate:"required,max=60"`
}

// Product is the tenant's product master data
type Product struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Description     string           `json:"description" gorm:"type:varchar(60);not null" validate:"required,max=60"`
	Barcode         *string          `json:"barcode" gorm:"type:varchar(20);index" validate:"omitempty,max=20"`
	BoxBarcode      *string          `json:"box_barcode" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	FactoryCode     *string          `json:"factory_code" gorm:"type:varchar(10)" validate:"omitempty,max=10"`
	Cost            *decimal.Decimal `json:"cost" gorm:"type:numeric(38,2)" validate:"omitempty,gte=0"`
	Markup          *decimal.Decimal `json:"markup" gorm:"type:numeric(38,2)"`
	SalePrice       *decimal.Decimal `json:"sale_price" gorm:"type:numeric(38,2)" validate:"omitempty,gte=0"`
	StockQuantity   *float64         `json:"stock_quantity" gorm:"type:numeric(38,2)"`
	UnitQuantity    *int             `json:"unit_quantity"`
	BoxUnitQuantity *int             `json:"box_unit_quantity"`
	CategoryID      *uint            `json:"category_id"`
	DepartmentID    *uint            `json:"department_id"`
	SupplierID      *uint            `json:"supplier_id"`
	SectionID       *uint            `json:"section_id"`
	UnitID          *string          `json:"unit_id" gorm:"type:varchar(4)"`
	BoxUnitID       *string          `json:"box_unit_id" gorm:"type:varchar(4)"`
	CreatedBy       *uuid.UUID       `json:"created_by" gorm:"type:uuid"`
	CreatedAt       time.Time        `json:"created_at"`
	DeletedAt       gorm.DeletedAt   `json:"-" gorm:"index"`

	Category   *Category   `json:"-" gorm:"foreignKey:CategoryID"`
	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
	Supplier   *Supplier   `json:"-" gorm:"foreignKey:SupplierID"`
	Section    *Section    `json:"-" gorm:"foreignKey:SectionID"`
	Unit       *Unit       `json:"-" gorm:"foreignKey:UnitID;references:Code"`
	BoxUnit    *Unit       `json:"-" gorm:"foreignKey:BoxUnitID;references:Code"`
}

// Stock is the quantity of one product held at one branch
type Stock struct {
	ID               uint     `json:"id" gorm:"primaryKey"`
	BranchID         uint     `json:"branch_id" gorm:"not null;uniqueIndex:idx_stock_branch_product" validate:"required"`
	ProductID        uint     `json:"product_id" gorm:"not null;uniqueIndex:idx_stock_branch_product" validate:"required"`
	Quantity         *float64 `json:"quantity" gorm:"type:numeric(38,2)"`
	TotalQuantity    *float64 `json:"total_quantity" gorm:"type:numeric(38,2)"`
	ReservedQuantity *float64 `json:"reserved_quantity" gorm:"type:numeric(38,2)"`
	Branch           *Branch  `json:"-" gorm:"foreignKey:BranchID"`
	Product          *Product `json:"-" gorm:"foreignKey:ProductID"`
}
