// Package user manages authentication-bearing user accounts: creation,
// credential and token verification, and soft deletion.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/crud"
	"github.com/SreeGowri/webutils/pkg/logger"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when the referenced user does not exist or
	// was soft-deleted.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when a non-deleted user already holds
	// the requested username within the same space.
	ErrDuplicateUsername = errors.New("username is already taken")

	// ErrInvalidCredentials is returned when the username/password or access
	// token does not match any active user.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service manages user accounts on top of the generic CRUD service.
type Service struct {
	db   *gorm.DB
	crud *crud.Service[model.User, *model.User]
	log  logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	return &Service{
		db:   db,
		crud: crud.NewService[model.User, *model.User](db, log),
		log:  log,
	}
}

// Create registers a new user. The password is stored only as a bcrypt hash
// and a fresh access token is generated. The uniqueness check deliberately
// excludes soft-deleted rows so a previously deleted name can be re-registered.
func (s *Service) Create(ctx context.Context, req *types.CreateUserRequest, baseEntityType string, baseEntityID *uint, actor uint) (*model.User, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? AND deleted = ?", req.Username, false).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check username %s: %w", req.Username, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []types.UserRole{types.UserRoleUser}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode roles: %w", err)
	}

	username := req.Username
	token := uuid.NewString()
	u := &model.User{
		Username:       &username,
		Password:       string(hash),
		DisplayName:    req.DisplayName,
		BaseEntityType: baseEntityType,
		BaseEntityID:   baseEntityID,
		Roles:          datatypes.JSON(rolesJSON),
		AccessToken:    &token,
	}
	if _, err := s.crud.Save(ctx, u, actor); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", req.Username, err)
	}
	return u, nil
}

// UpdateFromConfig rewrites the mutable fields of an existing user from its
// declared configuration. The password is re-hashed only when it no longer
// matches the stored hash, so unchanged config files do not churn the row.
func (s *Service) UpdateFromConfig(ctx context.Context, u *model.User, cfg *types.UserConfig, actor uint) error {
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(cfg.Password)) != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hash)
	}
	u.DisplayName = cfg.DisplayName

	roles := cfg.Roles
	if len(roles) == 0 {
		roles = []types.UserRole{types.UserRoleUser}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}
	u.Roles = datatypes.JSON(rolesJSON)

	if _, err := s.crud.Save(ctx, u, actor); err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return nil
}

// Authenticate verifies a username/password pair against the stored hash and
// returns the matching active user. Soft-deleted users never authenticate.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND deleted = ?", username, false).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", username, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// VerifyToken resolves a bearer access token to its active user.
func (s *Service) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	var u model.User
	err := s.db.WithContext(ctx).
		Where("access_token = ? AND deleted = ?", token, false).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}
	return &u, nil
}

// GetByUsername returns the active user with the given username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND deleted = ?", username, false).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", username, err)
	}
	return &u, nil
}

// SoftDelete marks the user deleted and clears the username to free the
// uniqueness slot. The row itself is never removed.
func (s *Service) SoftDelete(ctx context.Context, id uint, actor uint) error {
	u, err := s.crud.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return err
	}
	if u.Deleted {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	u.Deleted = true
	u.Username = nil
	u.AccessToken = nil
	if _, err := s.crud.Save(ctx, u, actor); err != nil {
		return fmt.Errorf("failed to soft-delete user %d: %w", id, err)
	}
	return nil
}
