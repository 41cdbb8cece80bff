package model

import "github.com/google/uuid"

// Client is a customer of the tenant
type Client struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	TaxID      string     `json:"tax_id" gorm:"type:varchar(15);not null" validate:"required,max=15"`
	Name       *string    `json:"name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	LegalName  *string    `json:"legal_name" gorm:"type:varchar(150)" validate:"omitempty,max=150"`
	PersonType *string    `json:"person_type" gorm:"type:varchar(1)" validate:"omitempty,oneof=F J"`
	UserID     *uuid.UUID `json:"user_id" gorm:"type:uuid"`
}

// Supplier provides products. A supplier may also be registered as a client.
type Supplier struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	TaxID      string  `json:"tax_id" gorm:"type:varchar(15);not null" validate:"required,max=15"`
	LegalName  string  `json:"legal_name" gorm:"type:varchar(150);not null" validate:"required,max=150"`
	TradeName  *string `json:"trade_name" gorm:"type:varchar(150)" validate:"omitempty,max=150"`
	PersonType *string `json:"person_type" gorm:"type:varchar(1)" validate:"omitempty,oneof=F J"`
	ClientID   *uint   `json:"client_id" gorm:"uniqueIndex"`
	Client     *Client `json:"-" gorm:"foreignKey:ClientID"`
}

// Branch is a physical store or warehouse holding stock
type Branch struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TaxID      string    `json:"tax_id" gorm:"type:varchar(15);not null" validate:"required,max=15"`
	LegalName  string    `json:"legal_name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	BranchName *string   `json:"branch_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	ClientID   *uint     `json:"client_id" gorm:"uniqueIndex"`
	SupplierID *uint     `json:"supplier_id" gorm:"uniqueIndex"`
	Client     *Client   `json:"-" gorm:"foreignKey:ClientID"`
	Supplier   *Supplier `json:"-" gorm:"foreignKey:SupplierID"`
}
