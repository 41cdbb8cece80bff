package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership roles
const (
	TenantRoleOwner  = "owner"
	TenantRoleAdmin  = "admin"
	TenantRoleMember = "member"
)

// UserTenant grants a shared user access to one tenant. A user may belong to several tenants.
type UserTenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_tenant_member"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;uniqueIndex:idx_user_tenant_member;index"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID"`
	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
