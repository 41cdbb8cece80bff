// Package pgerr inspects PostgreSQL errors returned through gorm and pgx.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the service reacts to
const (
	UniqueViolation           = "23505"
	ForeignKeyViolation       = "23503"
	NotNullViolation          = "23502"
	InvalidTextRepresentation = "22P02"
	StringDataRightTruncation = "22001"
	DuplicateSchema           = "42P06"
	InsufficientPrivilege     = "42501"
	InvalidSchemaName         = "3F000"
)

// Code returns the SQLSTATE of err, or "" when err does not come from PostgreSQL.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Constraint returns the violated constraint name, if any.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
