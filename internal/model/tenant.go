package model

import "time"

// Tenant lifecycle states
const (
	TenantStatusRegistered  = "registered"
	TenantStatusProvisioned = "provisioned"
)

// Tenant is a registry row in the shared schema. Each tenant owns the database schema named SchemaName.
type Tenant struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          *string    `json:"name" gorm:"type:varchar(60)"`
	SchemaName    string     `json:"schema_name" gorm:"type:varchar(63);not null;uniqueIndex"`
	Status        string     `json:"status" gorm:"type:varchar(20);not null;default:'registered'"`
	ProvisionedAt *time.Time `json:"provisioned_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsProvisioned reports whether the tenant schema and its tables exist.
func (t *Tenant) IsProvisioned() bool {
	return t.Status == TenantStatusProvisioned
}
