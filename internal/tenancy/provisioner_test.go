package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/retail-backend/internal/model"
)

func newTestProvisioner(t *testing.T) (*Provisioner, *Resolver, sqlmock.Sqlmock) {
	t.Helper()

	resolver, mock := newTestResolver(t)
	return NewProvisioner(resolver, "shared", model.TenantModels()), resolver, mock
}

func TestCreateSchema(t *testing.T) {
	p, _, mock := newTestProvisioner(t)

	mock.ExpectExec(`CREATE SCHEMA "acme"`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, p.CreateSchema(context.Background(), "acme"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchemaCollision(t *testing.T) {
	p, _, mock := newTestProvisioner(t)

	mock.ExpectExec(`CREATE SCHEMA "acme"`).
		WillReturnError(&pgconn.PgError{Code: "42P06", Message: `schema "acme" already exists`})

	err := p.CreateSchema(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrSchemaExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchemaInsufficientPrivilege(t *testing.T) {
	p, _, mock := newTestProvisioner(t)

	mock.ExpectExec(`CREATE SCHEMA "acme"`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for database retail"})

	err := p.CreateSchema(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrInsufficientPrivilege)
	assert.False(t, errors.Is(err, ErrSchemaExists))
}

func TestCreateSchemaRejectsMalformedNameWithoutSQL(t *testing.T) {
	p, _, mock := newTestProvisioner(t)

	assert.ErrorIs(t, p.CreateSchema(context.Background(), "Acme Store"), ErrInvalidSchemaName)
	assert.ErrorIs(t, p.CreateSchema(context.Background(), "shared"), ErrInvalidSchemaName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchemaUnclassifiedError(t *testing.T) {
	p, _, mock := newTestProvisioner(t)

	mock.ExpectExec(`CREATE SCHEMA "acme"`).WillReturnError(errors.New("connection reset"))

	err := p.CreateSchema(context.Background(), "acme")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchemaExists))
	assert.False(t, errors.Is(err, ErrInsufficientPrivilege))
}

func TestDropSchemaForgetsSession(t *testing.T) {
	p, resolver, mock := newTestProvisioner(t)

	before, err := resolver.For("acme")
	require.NoError(t, err)

	mock.ExpectExec(`DROP SCHEMA IF EXISTS "acme" CASCADE`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, p.DropSchema(context.Background(), "acme"))
	assert.NoError(t, mock.ExpectationsWereMet())

	after, err := resolver.For("acme")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
}
