package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	tenantID := uint(7)
	token, err := util.GenerateTokenWithTenant("ana@example.com", "6f1c5d1e-0000-4000-8000-000000000001", &tenantID, "acme")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "6f1c5d1e-0000-4000-8000-000000000001", claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(7), *claims.TenantID)
	assert.Equal(t, "acme", claims.SchemaName)
}

func TestGenerateTokenWithoutTenant(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken("ana@example.com", "u-1")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Empty(t, claims.SchemaName)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "issuer-key", ExpirationHours: 1})
	verifier := NewJWTUtil(&JWTConfig{SigningKey: "other-key", ExpirationHours: 1})

	token, err := issuer.GenerateToken("ana@example.com", "u-1")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: -1})

	token, err := util.GenerateToken("ana@example.com", "u-1")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	util := NewJWTUtil(nil)

	_, err := util.GenerateToken("ana@example.com", "u-1")
	assert.Error(t, err)
}
