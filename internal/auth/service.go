package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/internal/users"
	pkgAuth "github.com/farmtotable/farmtotable-backend/pkg/auth"
	"github.com/farmtotable/farmtotable-backend/pkg/config"
	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
	"github.com/farmtotable/farmtotable-backend/pkg/security"
)

const invalidCredentialsMessage = "Invalid email or password"

// Service defines registration, login and identity lookup.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Lookup(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
}

// ServiceParams wires auth dependencies.
type ServiceParams struct {
	Users    users.Repository
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	users    users.Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService validates dependencies and returns the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jwt secret required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.Users,
		jwt:      params.JWT,
		password: params.Password,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Address:      strings.TrimSpace(req.Address),
		Role:         enums.UserRoleCustomer,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Info(logCtx, "auth.register.success")
	}

	return &RegisterResult{User: users.ToDTO(user)}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		// Unknown email and wrong password answer identically.
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgAuth.MintAccessToken(s.jwt, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Info(logCtx, "auth.login.success")
	}

	return &LoginResult{
		Token:  token,
		UserID: user.ID,
		Role:   string(user.Role),
		User:   users.ToDTO(user),
	}, nil
}

func (s *service) Lookup(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	dto := users.ToDTO(user)
	return &dto, nil
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
