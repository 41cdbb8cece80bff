package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/suteetoe/retail-backend/pkg/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormLogger routes gorm's SQL log through zap at the configured level.
func NewGormLogger(dbConfig *config.DBConfig, log *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  dbConfig.GormLogLevel(),
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Open connects to PostgreSQL and returns the shared connection pool. Schema-bound gorm
// sessions are built on top of it, so the pool settings apply to every tenant.
func Open(dbConfig *config.DBConfig, gormLogger logger.Interface) (*sql.DB, error) {
	pgConfig := postgres.Config{
		DSN:                  dbConfig.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return sqlDB, nil
}
