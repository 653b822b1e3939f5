package auth

import (
	"errors"
	"fmt"
	"strings"

	"trading-journal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles account registration and sign-in.
type Service struct {
	db        *gorm.DB
	passwords *PasswordManager
	tokens    *JWTManager
	logger    *zap.Logger
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, passwords *PasswordManager, tokens *JWTManager, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger.Named("auth"),
	}
}

// Register validates the form constraints, creates the account and
// returns the new user with a signed access token.
func (s *Service) Register(username, email, password string) (*models.User, string, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := s.passwords.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, "", ErrUserExists
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(UserClaims{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return &user, token, nil
}

// Login verifies credentials against the stored hash and returns the
// user with a fresh access token. The identifier may be the username
// or the email address.
func (s *Service) Login(identifier, password string) (*models.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.db.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwords.VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(UserClaims{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}
