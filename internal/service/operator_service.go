package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/suteetoe/retail-backend/internal/apperror"
	"github.com/suteetoe/retail-backend/internal/model"
	"github.com/suteetoe/retail-backend/internal/repository"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OperatorInput is the payload for creating or replacing an operator. Password is required on
// create; on update an empty password keeps the stored one.
type OperatorInput struct {
	Login        string     `json:"login" validate:"required,max=50"`
	Password     string     `json:"password" validate:"omitempty,min=8,max=72"`
	Sector       string     `json:"sector" validate:"required,max=20"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
}

// OperatorStore is the persistence used by OperatorService
type OperatorStore interface {
	List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.Operator, error)
	Get(ctx context.Context, db *gorm.DB, key string) (*model.Operator, error)
	Create(ctx context.Context, db *gorm.DB, item *model.Operator) error
	Update(ctx context.Context, db *gorm.DB, key string, item *model.Operator) (*model.Operator, error)
	Delete(ctx context.Context, db *gorm.DB, key string) error
}

// OperatorService manages the operators of the caller's tenant
type OperatorService struct {
	operators OperatorStore
	cost      int
}

func NewOperatorService(operators OperatorStore) *OperatorService {
	return &OperatorService{operators: operators, cost: bcrypt.DefaultCost}
}

func (s *OperatorService) List(ctx context.Context, db *gorm.DB, page repository.Page) ([]model.Operator, error) {
	return s.operators.List(ctx, db, page)
}

func (s *OperatorService) Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.Operator, error) {
	return s.operators.Get(ctx, db, id.String())
}

// Create stores a new operator with a bcrypt hashed password
func (s *OperatorService) Create(ctx context.Context, db *gorm.DB, input OperatorInput) (*model.Operator, error) {
	if input.Password == "" {
		return nil, apperror.Validation("password is required", nil)
	}
	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	operator := &model.Operator{
		Login:        strings.TrimSpace(input.Login),
		PasswordHash: hash,
		Sector:       input.Sector,
		SupervisorID: input.SupervisorID,
	}
	if err := s.operators.Create(ctx, db, operator); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Created operator", zap.String("operator_id", operator.ID.String()))
	return operator, nil
}

// Update replaces the operator's fields. The password hash changes only when a new password is given.
func (s *OperatorService) Update(ctx context.Context, db *gorm.DB, id uuid.UUID, input OperatorInput) (*model.Operator, error) {
	if input.SupervisorID != nil && *input.SupervisorID == id {
		return nil, apperror.Validation("an operator cannot supervise itself", nil)
	}

	var hash string
	if input.Password != "" {
		h, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	} else {
		current, err := s.operators.Get(ctx, db, id.String())
		if err != nil {
			return nil, err
		}
		hash = current.PasswordHash
	}

	return s.operators.Update(ctx, db, id.String(), &model.Operator{
		Login:        strings.TrimSpace(input.Login),
		PasswordHash: hash,
		Sector:       input.Sector,
		SupervisorID: input.SupervisorID,
	})
}

func (s *OperatorService) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return s.operators.Delete(ctx, db, id.String())
}

func (s *OperatorService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.Validation("password is too long", err)
		}
		return "", apperror.Infrastructure("failed to hash password", err)
	}
	return string(hashed), nil
}
