package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"gorm.io/gorm"
)

// MockTenantRepository is a mock implementation of repository.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) CreateWithOwner(ctx context.Context, tenant *model.Tenant, ownerID uuid.UUID) error {
	args := m.Called(ctx, tenant, ownerID)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) MarkProvisioned(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockTenantRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockProvisioner is a mock implementation of SchemaProvisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) CreateSchema(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProvisioner) MigrateTables(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProvisioner) DropSchema(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockTenantCache is a mock implementation of cache.TenantCache
type MockTenantCache struct {
	mock.Mock
}

func (m *MockTenantCache) Get(ctx context.Context, id uint) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantCache) Set(ctx context.Context, tenant *model.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantCache) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockMembershipRepository is a mock implementation of repository.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, membership *model.UserTenant) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Find(ctx context.Context, userID uuid.UUID, tenantID uint) (*model.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserTenant), args.Error(1)
}

// MockTenantLookup is a mock implementation of TenantLookup
type MockTenantLookup struct {
	mock.Mock
}

func (m *MockTenantLookup) GetTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

// MockSalesOrderStore is a mock implementation of SalesOrderStore
type MockSalesOrderStore struct {
	mock.Mock
}

func (m *MockSalesOrderStore) Create(ctx context.Context, db *gorm.DB, order *model.SalesOrder) error {
	args := m.Called(ctx, db, order)
	return args.Error(0)
}

func (m *MockSalesOrderStore) Get(ctx context.Context, db *gorm.DB, id uint) (*model.SalesOrder, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderStore) List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.SalesOrder, error) {
	args := m.Called(ctx, db, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

// MockOperatorStore is a mock implementation of OperatorStore
type MockOperatorStore struct {
	mock.Mock
}

func (m *MockOperatorStore) List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.Operator, error) {
	args := m.Called(ctx, db, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Operator), args.Error(1)
}

func (m *MockOperatorStore) Get(ctx context.Context, db *gorm.DB, key string) (*model.Operator, error) {
	args := m.Called(ctx, db, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func (m *MockOperatorStore) Create(ctx context.Context, db *gorm.DB, item *model.Operator) error {
	args := m.Called(ctx, db, item)
	return args.Error(0)
}

func (m *MockOperatorStore) Update(ctx context.Context, db *gorm.DB, key string, item *model.Operator) (*model.Operator, error) {
	args := m.Called(ctx, db, key, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Operator), args.Error(1)
}

func (m *MockOperatorStore) Delete(ctx context.Context, db *gorm.DB, key string) error {
	args := m.Called(ctx, db, key)
	return args.Error(0)
}
