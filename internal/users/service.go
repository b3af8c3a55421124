package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/auth"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/security"
)

// Service exposes account and authentication operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	GetProfile(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	CreateAdmin(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Delete(ctx context.Context, userID int64) error
}

// service implements the users service.
type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

// NewService constructs a users service instance.
func NewService(repo *Repository, passwordCfg config.PasswordConfig, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		repo:        repo,
		passwordCfg: passwordCfg,
		jwtCfg:      jwtCfg,
		now:         time.Now,
	}, nil
}

// Register creates a client account. Role escalation is not possible from
// the public endpoint; admins are created through CreateAdmin.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	return s.createAccount(ctx, input, enums.UserRoleClient)
}

// CreateAdmin provisions an administrator account.
func (s *service) CreateAdmin(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	return s.createAccount(ctx, input, enums.UserRoleAdmin)
}

func (s *service) createAccount(ctx context.Context, input RegisterInput, role enums.UserRole) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(name) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must have at least 2 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must have at least 6 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		AvatarURL:    input.AvatarURL,
		Phone:        input.Phone,
		Country:      input.Country,
		State:        input.State,
		City:         input.City,
		Street:       input.Street,
		Number:       input.Number,
		Reference:    input.Reference,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	return ToUserDTO(created), nil
}

// Login verifies credentials and mints a 24h access token.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		UserID:      user.ID,
	}, nil
}

// GetProfile returns the authenticated user's profile.
func (s *service) GetProfile(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// UpdateProfile applies a partial mutation to the user's own profile.
// Email, role and blocked state are not reachable from here.
func (s *service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if len(trimmed) < 2 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must have at least 2 characters")
		}
		user.Name = trimmed
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Country != nil {
		user.Country = input.Country
	}
	if input.State != nil {
		user.State = input.State
	}
	if input.City != nil {
		user.City = input.City
	}
	if input.Street != nil {
		user.Street = input.Street
	}
	if input.Number != nil {
		user.Number = input.Number
	}
	if input.Reference != nil {
		user.Reference = input.Reference
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return ToUserDTO(saved), nil
}

// List returns every account, ordered by name.
func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToUserDTO(&rows[i]))
	}
	return dtos, nil
}

// Delete removes an account.
func (s *service) Delete(ctx context.Context, userID int64) error {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}
