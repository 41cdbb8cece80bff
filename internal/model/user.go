package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a global identity stored in the shared schema, independent of any tenant.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      *string   `json:"name" gorm:"type:varchar(60)"`
	Email     string    `json:"email" gorm:"type:varchar(150);not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(150);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id when the caller left it empty
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
