package tenancy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSchemaName is returned for names that are not usable as a tenant schema
	ErrInvalidSchemaName = errors.New("invalid schema name")
	// ErrSchemaExists is returned when the schema is already present in the database
	ErrSchemaExists = errors.New("schema already exists")
	// ErrInsufficientPrivilege is returned when the database role may not create or drop schemas
	ErrInsufficientPrivilege = errors.New("insufficient privilege for schema DDL")
)

const maxIdentifierLength = 63

var schemaNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgreSQL reserved key words (cannot be used as unquoted identifiers).
var reservedWords = map[string]struct{}{
	"all": {}, "analyse": {}, "analyze": {}, "and": {}, "any": {}, "array": {}, "as": {}, "asc": {},
	"asymmetric": {}, "authorization": {}, "binary": {}, "both": {}, "case": {}, "cast": {}, "check": {},
	"collate": {}, "collation": {}, "column": {}, "concurrently": {}, "constraint": {}, "create": {},
	"cross": {}, "current_catalog": {}, "current_date": {}, "current_role": {}, "current_schema": {},
	"current_time": {}, "current_timestamp": {}, "current_user": {}, "default": {}, "deferrable": {},
	"desc": {}, "distinct": {}, "do": {}, "else": {}, "end": {}, "except": {}, "false": {}, "fetch": {},
	"for": {}, "foreign": {}, "freeze": {}, "from": {}, "full": {}, "grant": {}, "group": {}, "having": {},
	"ilike": {}, "in": {}, "initially": {}, "inner": {}, "intersect": {}, "into": {}, "is": {}, "isnull": {},
	"join": {}, "lateral": {}, "leading": {}, "left": {}, "like": {}, "limit": {}, "localtime": {},
	"localtimestamp": {}, "natural": {}, "not": {}, "notnull": {}, "null": {}, "offset": {}, "on": {},
	"only": {}, "or": {}, "order": {}, "outer": {}, "overlaps": {}, "placing": {}, "primary": {},
	"references": {}, "returning": {}, "right": {}, "select": {}, "session_user": {}, "similar": {},
	"some": {}, "symmetric": {}, "system_user": {}, "table": {}, "tablesample": {}, "then": {}, "to": {},
	"trailing": {}, "true": {}, "union": {}, "unique": {}, "user": {}, "using": {}, "variadic": {},
	"verbose": {}, "when": {}, "where": {}, "window": {}, "with": {},
}

// Schemas that exist in every database and never belong to a tenant.
var systemSchemas = map[string]struct{}{
	"public":             {},
	"information_schema": {},
}

// ValidateSchemaName checks that name can be used as a tenant schema.
// Names are lower case so the quoted and unquoted forms refer to the same schema.
func ValidateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidSchemaName)
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSchemaName, name, maxIdentifierLength)
	}
	if !schemaNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must contain only lower case letters, digits and underscores and not start with a digit", ErrInvalidSchemaName, name)
	}
	if strings.HasPrefix(name, "pg_") {
		return fmt.Errorf("%w: %q uses the reserved pg_ prefix", ErrInvalidSchemaName, name)
	}
	if _, ok := reservedWords[name]; ok {
		return fmt.Errorf("%w: %q is a reserved word", ErrInvalidSchemaName, name)
	}
	if _, ok := systemSchemas[name]; ok {
		return fmt.Errorf("%w: %q is a system schema", ErrInvalidSchemaName, name)
	}
	return nil
}

// ValidateTenantSchemaName is ValidateSchemaName plus a check that name is not the shared schema.
func ValidateTenantSchemaName(name, sharedSchema string) error {
	if err := ValidateSchemaName(name); err != nil {
		return err
	}
	if name == sharedSchema {
		return fmt.Errorf("%w: %q is the shared schema", ErrInvalidSchemaName, name)
	}
	return nil
}

// quoteIdentifier quotes a validated identifier for use in DDL.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
