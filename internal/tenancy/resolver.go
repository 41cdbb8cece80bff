// Package tenancy routes database work to per-tenant PostgreSQL schemas and provisions them.
//
// The Resolver is the single place where a schema name becomes part of SQL: every session it
// hands out qualifies table names with the schema, so handlers and repositories never build
// schema-qualified names themselves.
package tenancy

import (
	"database/sql"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Resolver hands out gorm sessions bound to one schema. All sessions share one connection pool.
type Resolver struct {
	pool      *sql.DB
	logger    logger.Interface
	sessions  map[string]*gorm.DB
	mu        sync.RWMutex
	openGroup singleflight.Group
}

// NewResolver creates a resolver over an existing connection pool.
func NewResolver(pool *sql.DB, gormLogger logger.Interface) *Resolver {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}
	return &Resolver{
		pool:     pool,
		logger:   gormLogger,
		sessions: make(map[string]*gorm.DB),
	}
}

// For returns the session for schemaName, opening it on first use.
func (r *Resolver) For(schemaName string) (*gorm.DB, error) {
	if err := ValidateSchemaName(schemaName); err != nil {
		return nil, err
	}

	r.mu.RLock()
	db, ok := r.sessions[schemaName]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}

	v, err, _ := r.openGroup.Do(schemaName, func() (interface{}, error) {
		r.mu.RLock()
		existing, ok := r.sessions[schemaName]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		opened, err := r.open(schemaName)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.sessions[schemaName] = opened
		r.mu.Unlock()
		return opened, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gorm.DB), nil
}

// Forget drops the cached session for schemaName. The connection pool stays open.
func (r *Resolver) Forget(schemaName string) {
	r.mu.Lock()
	delete(r.sessions, schemaName)
	r.mu.Unlock()
}

// Pool returns the shared connection pool.
func (r *Resolver) Pool() *sql.DB {
	return r.pool
}

func (r *Resolver) open(schemaName string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 r.pool,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: r.logger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   schemaName + ".",
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session for schema %s: %w", schemaName, err)
	}
	return db, nil
}
