package tenancy

import (
	"context"
	"fmt"

	"github.com/suteetoe/retail-backend/internal/pgerr"
	"gorm.io/gorm"
)

// Provisioner creates and removes tenant schemas. Each method is its own unit of work;
// sequencing and compensation belong to the caller.
type Provisioner struct {
	resolver     *Resolver
	sharedSchema string
	models       []interface{}
}

// NewProvisioner creates a provisioner that migrates models into every new schema.
func NewProvisioner(resolver *Resolver, sharedSchema string, models []interface{}) *Provisioner {
	return &Provisioner{
		resolver:     resolver,
		sharedSchema: sharedSchema,
		models:       models,
	}
}

// CreateSchema issues CREATE SCHEMA for name. It fails with ErrSchemaExists when the schema is
// already there; it is not a no-op.
func (p *Provisioner) CreateSchema(ctx context.Context, name string) error {
	if err := ValidateTenantSchemaName(name, p.sharedSchema); err != nil {
		return err
	}

	db, err := p.resolver.For(p.sharedSchema)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec("CREATE SCHEMA " + quoteIdentifier(name)).Error; err != nil {
		return classifyDDLError("create schema "+name, err)
	}
	return nil
}

// MigrateTables creates the tenant table set inside name. The migration runs in one
// transaction, so a failure leaves no partial table set behind.
func (p *Provisioner) MigrateTables(ctx context.Context, name string) error {
	if err := ValidateTenantSchemaName(name, p.sharedSchema); err != nil {
		return err
	}

	db, err := p.resolver.For(name)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(p.models...)
	})
	if err != nil {
		return classifyDDLError("migrate tables in "+name, err)
	}
	return nil
}

// DropSchema removes name and everything in it. Missing schemas are ignored.
func (p *Provisioner) DropSchema(ctx context.Context, name string) error {
	if err := ValidateTenantSchemaName(name, p.sharedSchema); err != nil {
		return err
	}

	db, err := p.resolver.For(p.sharedSchema)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec("DROP SCHEMA IF EXISTS " + quoteIdentifier(name) + " CASCADE").Error; err != nil {
		return classifyDDLError("drop schema "+name, err)
	}
	p.resolver.Forget(name)
	return nil
}

// EnsureSharedSchema creates the shared schema and its tables if missing.
func (p *Provisioner) EnsureSharedSchema(ctx context.Context, models ...interface{}) error {
	if err := ValidateSchemaName(p.sharedSchema); err != nil {
		return err
	}

	db, err := p.resolver.For(p.sharedSchema)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS " + quoteIdentifier(p.sharedSchema)).Error; err != nil {
		return classifyDDLError("create shared schema", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate shared tables: %w", err)
	}
	return nil
}

func classifyDDLError(op string, err error) error {
	switch pgerr.Code(err) {
	case pgerr.DuplicateSchema:
		return fmt.Errorf("%s: %w: %v", op, ErrSchemaExists, err)
	case pgerr.InsufficientPrivilege:
		return fmt.Errorf("%s: %w: %v", op, ErrInsufficientPrivilege, err)
	case pgerr.InvalidSchemaName:
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidSchemaName, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
