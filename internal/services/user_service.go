package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avelines/gradeboard/internal/models"
	"github.com/avelines/gradeboard/pkg/crypto"
	apperrors "github.com/avelines/gradeboard/pkg/errors"
	"github.com/avelines/gradeboard/pkg/metrics"
)

// minPasswordLength applies to self-registered accounts.
const minPasswordLength = 6

// UserService manages account lookup, registration and credential checks.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a user service once a database handle is supplied.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Authenticate verifies the supplied credentials and stamps the login time.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx = ensuredContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidation("username and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.NewStorage(err, "failed to load user")
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.NewStorage(err, "failed to record login")
	}
	user.LastLoginAt = &now

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}

// Register creates a new account with a unique username.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	ctx = ensuredContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidation("username cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidation("password must be at least 6 characters")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, apperrors.NewStorage(err, "failed to check username")
	}
	if existing > 0 {
		return nil, apperrors.NewValidation("username is already taken")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := models.User{Username: username, Password: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewStorage(err, "failed to create user")
	}

	return &user, nil
}

// GetByID loads a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensuredContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.NewStorage(err, "failed to load user")
	}
	return &user, nil
}
