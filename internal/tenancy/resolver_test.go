package tenancy

import (
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/retail-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestResolver(t *testing.T) (*Resolver, sqlmock.Sqlmock) {
	t.Helper()

	pool, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewResolver(pool, logger.Discard), mock
}

func TestResolverQualifiesTables(t *testing.T) {
	resolver, _ := newTestResolver(t)

	db, err := resolver.For("acme")
	require.NoError(t, err)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Find(&[]model.Client{})
	})
	assert.Contains(t, sql, `FROM "acme"."client"`)

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Find(&[]model.SalesOrderItem{})
	})
	assert.Contains(t, sql, `FROM "acme"."sales_order_item"`)
}

func TestResolverIsolatesSchemas(t *testing.T) {
	resolver, _ := newTestResolver(t)

	acme, err := resolver.For("acme")
	require.NoError(t, err)
	globex, err := resolver.For("globex")
	require.NoError(t, err)

	query := func(tx *gorm.DB) *gorm.DB { return tx.Find(&[]model.Unit{}) }
	assert.Contains(t, acme.ToSQL(query), `"acme"."unit"`)
	assert.NotContains(t, acme.ToSQL(query), `"globex"`)
	assert.Contains(t, globex.ToSQL(query), `"globex"."unit"`)
}

func TestResolverCachesSessions(t *testing.T) {
	resolver, _ := newTestResolver(t)

	first, err := resolver.For("acme")
	require.NoError(t, err)
	second, err := resolver.For("acme")
	require.NoError(t, err)
	assert.Same(t, first, second)

	resolver.Forget("acme")
	third, err := resolver.For("acme")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestResolverConcurrentFirstUse(t *testing.T) {
	resolver, _ := newTestResolver(t)

	var wg sync.WaitGroup
	sessions := make([]*gorm.DB, 16)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := resolver.For("acme")
			assert.NoError(t, err)
			sessions[i] = db
		}(i)
	}
	wg.Wait()

	for _, db := range sessions[1:] {
		assert.Same(t, sessions[0], db)
	}
}

func TestResolverRejectsInvalidName(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.For(`acme"; DROP TABLE x; --`)
	assert.ErrorIs(t, err, ErrInvalidSchemaName)
}
