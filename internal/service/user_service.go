package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/pkg/jwtutil"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"github.com/suteetoe/retail-backend/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload for creating a user
type RegisterInput struct {
	Name     *string `json:"name" validate:"omitempty,max=60"`
	Email    string  `json:"email" validate:"required,email,max=150"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the payload for authenticating a user. TenantID selects the tenant
// the issued token is bound to.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TenantID *uint  `json:"tenant_id,omitempty"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token  string        `json:"token"`
	User   *model.User   `json:"user"`
	Tenant *model.Tenant `json:"tenant,omitempty"`
}

// AddMemberInput grants an existing user access to a tenant
type AddMemberInput struct {
	Email string `json:"email" validate:"required,email,max=150"`
	Role  string `json:"role" validate:"omitempty,oneof=owner admin member"`
}

// TenantLookup resolves a tenant by id. *TenantService implements it.
type TenantLookup interface {
	GetTenant(ctx context.Context, id uint) (*model.Tenant, error)
}

// UserService registers and authenticates global users and manages their tenant memberships
type UserService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	tenants     TenantLookup
	jwt         *jwtutil.JWTUtil
	cost        int
}

// NewUserService creates a new user service
func NewUserService(
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	tenants TenantLookup,
	jwt *jwtutil.JWTUtil,
) *UserService {
	return &UserService{
		users:       users,
		memberships: memberships,
		tenants:     tenants,
		jwt:         jwt,
		cost:        bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt hashed password
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Validation("password is too long", err)
		}
		return nil, apperror.Infrastructure("failed to hash password", err)
	}

	user := &model.User{
		Name:     input.Name,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		prometheus.RecordAuthOperation("register", "failure")
		return nil, err
	}

	prometheus.RecordAuthOperation("register", "success")
	logger.FromContext(ctx).Info("Registered user", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate verifies the credentials and issues a token. When a tenant is selected it must
// exist, the user must be a member of it and it must be provisioned; its id and schema are then
// carried in the token.
func (s *UserService) Authenticate(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		prometheus.RecordAuthOperation("login", "unknown_user")
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		prometheus.RecordAuthOperation("login", "invalid_password")
		return nil, apperror.Unauthorized("invalid credentials")
	}

	result := &LoginResult{User: user}
	var schemaName string
	if input.TenantID != nil {
		tenant, err := s.tenants.GetTenant(ctx, *input.TenantID)
		if err != nil {
			return nil, err
		}
		if err := s.requireMember(ctx, user.ID, tenant.ID); err != nil {
			prometheus.RecordAuthOperation("login", "tenant_access_denied")
			return nil, err
		}
		if !tenant.IsProvisioned() {
			return nil, apperror.Conflict("tenant schema is not provisioned", nil)
		}
		result.Tenant = tenant
		schemaName = tenant.SchemaName
	}

	token, err := s.jwt.GenerateTokenWithTenant(user.Email, user.ID.String(), input.TenantID, schemaName)
	if err != nil {
		return nil, apperror.Infrastructure("failed to generate token", err)
	}
	result.Token = token

	prometheus.RecordAuthOperation("login", "success")
	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return result, nil
}

// GetUser returns the user with id
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unauthorized("invalid user id in token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

// AddMember grants the user registered under input.Email access to the tenant.
func (s *UserService) AddMember(ctx context.Context, tenantID uint, input AddMemberInput) (*model.UserTenant, error) {
	tenant, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	role := input.Role
	if role == "" {
		role = model.TenantRoleMember
	}
	membership := &model.UserTenant{UserID: user.ID, TenantID: tenant.ID, Role: role}
	if err := s.memberships.Add(ctx, membership); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Added tenant member",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("user_id", user.ID.String()),
		zap.String("role", role))
	return membership, nil
}

// CheckMembership returns a Forbidden error unless the user identified by the token subject
// belongs to the tenant.
func (s *UserService) CheckMembership(ctx context.Context, userID string, tenantID uint) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return apperror.Unauthorized("invalid user id in token")
	}
	return s.requireMember(ctx, id, tenantID)
}

func (s *UserService) requireMember(ctx context.Context, userID uuid.UUID, tenantID uint) error {
	membership, err := s.memberships.Find(ctx, userID, tenantID)
	if err != nil {
		return err
	}
	if membership == nil {
		logger.FromContext(ctx).Warn("Tenant access denied",
			zap.String("user_id", userID.String()),
			zap.Uint("tenant_id", tenantID))
		return apperror.Forbidden("access denied to the specified tenant")
	}
	return nil
}
