package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/tenancy"
	"github.com/suteetoe/retail-backend/pkg/jwtutil"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubTenants map[uint]*model.Tenant

func (s stubTenants) GetTenant(_ context.Context, id uint) (*model.Tenant, error) {
	tenant, ok := s[id]
	if !ok {
		return nil, apperror.NotFound("tenant not found")
	}
	return tenant, nil
}

// stubMembers maps a user id to the tenants it belongs to.
type stubMembers map[string][]uint

func (s stubMembers) CheckMembership(_ context.Context, userID string, tenantID uint) error {
	for _, id := range s[userID] {
		if id == tenantID {
			return nil
		}
	}
	return apperror.Forbidden("access denied to the specified tenant")
}

var testMembers = stubMembers{"u-1": {1, 2, 3}, "u-2": {1}}

func newTestResolver(t *testing.T) *tenancy.Resolver {
	t.Helper()
	pool, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return tenancy.NewResolver(pool, gormlogger.Discard)
}

var testTenants = stubTenants{
	1: {ID: 1, SchemaName: "acme", Status: model.TenantStatusProvisioned},
	2: {ID: 2, SchemaName: "globex", Status: model.TenantStatusProvisioned},
	3: {ID: 3, SchemaName: "initech", Status: model.TenantStatusRegistered},
}

func serveTenant(t *testing.T, claims *jwtutil.UserClaims, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	if header != "" {
		req.Header.Set(TenantHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsKey, claims)
	}

	handler := TenantMiddleware(testTenants, testMembers, newTestResolver(t))(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func tenantClaims(id uint) *jwtutil.UserClaims {
	return &jwtutil.UserClaims{UserID: "u-1", TenantID: &id}
}

func TestTenantMiddlewareFromClaim(t *testing.T) {
	rec, c := serveTenant(t, tenantClaims(1), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, Tenant(c))
	assert.Equal(t, "acme", Tenant(c).SchemaName)

	db, err := TenantDB(c)
	require.NoError(t, err)
	stmt := db.Session(&gorm.Session{DryRun: true}).Find(&[]model.Client{}).Statement
	assert.Contains(t, stmt.SQL.String(), `"acme"."client"`)
}

func TestTenantMiddlewareFromHeader(t *testing.T) {
	rec, c := serveTenant(t, &jwtutil.UserClaims{UserID: "u-1"}, "2")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "globex", Tenant(c).SchemaName)
}

func TestTenantMiddlewareHeaderRequiresMembership(t *testing.T) {
	rec, c := serveTenant(t, &jwtutil.UserClaims{UserID: "u-2"}, "2")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"access denied to the specified tenant"}`, rec.Body.String())
	assert.Nil(t, Tenant(c))
	_, err := TenantDB(c)
	assert.Error(t, err)
}

func TestTenantMiddlewareMatchingHeaderAndClaim(t *testing.T) {
	rec, _ := serveTenant(t, tenantClaims(1), "1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTenantMiddlewareRejections(t *testing.T) {
	tests := []struct {
		name   string
		claims *jwtutil.UserClaims
		header string
		status int
	}{
		{"header disagrees with token", tenantClaims(1), "2", http.StatusForbidden},
		{"no tenant", &jwtutil.UserClaims{UserID: "u-1"}, "", http.StatusBadRequest},
		{"malformed header", nil, "acme", http.StatusBadRequest},
		{"zero header", nil, "0", http.StatusBadRequest},
		{"unknown tenant", &jwtutil.UserClaims{UserID: "u-1"}, "999", http.StatusNotFound},
		{"header without token", nil, "1", http.StatusUnauthorized},
		{"header for a foreign tenant", &jwtutil.UserClaims{UserID: "u-2"}, "3", http.StatusForbidden},
		{"not provisioned", tenantClaims(3), "", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := serveTenant(t, tt.claims, tt.header)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Nil(t, Tenant(c))
		})
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	token, err := jwtUtil.GenerateToken("ana@example.com", "u-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := JWTAuthMiddleware(jwtUtil)(func(c echo.Context) error {
				assert.Equal(t, "u-1", Claims(c).UserID)
				return c.NoContent(http.StatusNoContent)
			})
			require.NoError(t, handler(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	token, err := jwtUtil.GenerateToken("ana@example.com", "u-1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		status   int
		wantUser string
	}{
		{"anonymous", "", http.StatusNoContent, ""},
		{"valid token", "Bearer " + token, http.StatusNoContent, "u-1"},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/tenants/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen string
			handler := OptionalJWTMiddleware(jwtUtil)(func(c echo.Context) error {
				if claims := Claims(c); claims != nil {
					seen = claims.UserID
				}
				return c.NoContent(http.StatusNoContent)
			})
			require.NoError(t, handler(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error {
		assert.NotNil(t, logger.FromContext(c.Request().Context()))
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}
