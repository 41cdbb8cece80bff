package repository

import (
	"errors"

	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/pgerr"
	"gorm.io/gorm"
)

// translate classifies database errors. Callers pass the message used for infrastructure
// failures and, for constraint violations, the client-facing conflict message.
func translate(err error, op, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("record not found")
	}

	switch pgerr.Code(err) {
	case pgerr.UniqueViolation:
		return apperror.Conflict(conflictMsg, err)
	case pgerr.ForeignKeyViolation:
		return apperror.Validation("referenced record does not exist or is still referenced", err)
	case pgerr.NotNullViolation:
		return apperror.Validation("required field is missing", err)
	case pgerr.InvalidTextRepresentation:
		return apperror.Validation("malformed identifier or value", err)
	case pgerr.StringDataRightTruncation:
		return apperror.Validation("value is too long", err)
	}
	return apperror.Infrastructure("failed to "+op, err)
}
