package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operator is a login local to one tenant, such as a cashier at a branch. Operators may report
// to a supervisor operator of the same tenant.
type Operator struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Login        string     `json:"login" gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"type:varchar(100);not null"`
	Sector       string     `json:"sector" gorm:"type:varchar(20);not null"`
	SupervisorID *uuid.UUID `json:"supervisor_id" gorm:"type:uuid"`
	Supervisor   *Operator  `json:"-" gorm:"foreignKey:SupervisorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// BeforeCreate assigns the id when the caller left it empty
func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
