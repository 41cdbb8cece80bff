package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("create tenant: %w", Conflict("schema_name already registered", cause))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusConflict, KindOf(err).StatusCode())
	assert.Equal(t, "schema_name already registered", PublicMessage(err))
}

func TestUnclassifiedIsInfrastructure(t *testing.T) {
	err := errors.New("connection refused")

	assert.Equal(t, KindInfrastructure, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, KindOf(err).StatusCode())
	assert.Equal(t, "internal server error", PublicMessage(err))
}

func TestInfrastructureMessageHidden(t *testing.T) {
	err := Infrastructure("failed to create schema", errors.New("permission denied for database retail"))

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "permission denied")
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, KindNotFound.StatusCode())
	assert.Equal(t, http.StatusBadRequest, KindValidation.StatusCode())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.StatusCode())
	assert.Equal(t, http.StatusForbidden, KindForbidden.StatusCode())
	assert.False(t, Is(nil, KindNotFound))
}
