//go:build integration

package tenancy_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/internal/service"
	"github.com/suteetoe/retail-backend/internal/tenancy"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("retail_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	pool, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func schemaExists(t *testing.T, pool *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func tableNames(t *testing.T, pool *sql.DB, schemaName string) []string {
	t.Helper()
	rows, err := pool.Query(`SELECT table_name FROM information_schema.tables WHERE table_schema = $1 ORDER BY table_name`, schemaName)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestProvisioningAgainstPostgres(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	resolver := tenancy.NewResolver(pool, logger.Discard)
	provisioner := tenancy.NewProvisioner(resolver, "shared", model.TenantModels())
	require.NoError(t, provisioner.EnsureSharedSchema(ctx, model.SharedModels()...))

	shared, err := resolver.For("shared")
	require.NoError(t, err)
	tenants := service.NewTenantService(repository.NewTenantRepository(shared), provisioner, nil, "shared")

	name := "Acme"
	acme, err := tenants.CreateTenant(ctx, service.CreateTenantInput{Name: &name, SchemaName: "acme"})
	require.NoError(t, err)
	assert.NotZero(t, acme.ID)

	_, err = tenants.CreateTenant(ctx, service.CreateTenantInput{SchemaName: "acme"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	listed, err := tenants.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "acme", listed[0].SchemaName)

	provisioned, err := tenants.ProvisionTenant(ctx, acme.ID)
	require.NoError(t, err)
	assert.True(t, provisioned.IsProvisioned())
	assert.True(t, schemaExists(t, pool, "acme"))
	assert.ElementsMatch(t, []string{
		"branch", "category", "client", "department", "operator", "product",
		"sales_order", "sales_order_item", "section", "stock", "supplier", "unit",
	}, tableNames(t, pool, "acme"))

	_, err = tenants.ProvisionTenant(ctx, acme.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = tenants.ProvisionTenant(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	stored, err := repository.NewTenantRepository(shared).FindByID(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TenantStatusProvisioned, stored.Status)
	assert.NotNil(t, stored.ProvisionedAt)
}

func TestSchemaCollisionIsReported(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	resolver := tenancy.NewResolver(pool, logger.Discard)
	provisioner := tenancy.NewProvisioner(resolver, "shared", model.TenantModels())

	require.NoError(t, provisioner.CreateSchema(ctx, "globex"))
	err := provisioner.CreateSchema(ctx, "globex")
	assert.ErrorIs(t, err, tenancy.ErrSchemaExists)

	require.NoError(t, provisioner.DropSchema(ctx, "globex"))
	assert.False(t, schemaExists(t, pool, "globex"))
}

func TestTenantDataIsIsolated(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	resolver := tenancy.NewResolver(pool, logger.Discard)
	provisioner := tenancy.NewProvisioner(resolver, "shared", model.TenantModels())
	for _, name := range []string{"acme", "globex"} {
		require.NoError(t, provisioner.CreateSchema(ctx, name))
		require.NoError(t, provisioner.MigrateTables(ctx, name))
	}

	units := repository.NewStore[model.Unit]("unit", "code")
	acme, err := resolver.For("acme")
	require.NoError(t, err)
	globex, err := resolver.For("globex")
	require.NoError(t, err)

	require.NoError(t, units.Create(ctx, acme, &model.Unit{Code: "KG", Description: "Kilogram"}))

	_, err = units.Get(ctx, globex, "KG")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	got, err := units.Get(ctx, acme, "KG")
	require.NoError(t, err)
	assert.Equal(t, "Kilogram", got.Description)
}
