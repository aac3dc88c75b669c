package service

import (
	"strings"
	"time"

	"hotel-backoffice/internal/apperrors"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/utils"
	"hotel-backoffice/pkg/logger"

	"go.uber.org/zap"
)

type AuthService struct {
	users     *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a guest account. The role is forced to guest regardless
// of input; staff accounts only come from CreateStaff.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" || input.Phone == "" || input.Address == "" {
		return nil, apperrors.Validation("please fill all the fields")
	}

	email := NormalizeEmail(input.Email)

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, apperrors.Internal("registration failed", err)
	}
	if existing != nil {
		logger.Log.Warn("Registration rejected: email already exists",
			zap.String("email", email),
		)
		return nil, apperrors.Conflict("user already exists")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("registration failed", err)
	}

	user := &models.User{
		ID:           newID(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Role:         models.RoleGuest,
		IsActive:     true,
	}

	if err := s.users.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, apperrors.Internal("registration failed", err)
	}

	logger.Log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials for an active account and issues a token.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.Validation("please provide email and password")
	}

	normalized := NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(normalized)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", normalized),
			zap.Error(err),
		)
		return "", nil, apperrors.Internal("login failed", err)
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", normalized),
		)
		return "", nil, apperrors.Auth("user not available")
	}

	if !user.IsActive {
		logger.Log.Warn("Login rejected: account deactivated",
			zap.String("user_id", user.ID.String()),
		)
		return "", nil, apperrors.Forbidden("account deactivated")
	}

	match, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, apperrors.Internal("login failed", err)
	}
	if !match {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return "", nil, apperrors.Auth("invalid credentials")
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", nil, apperrors.Internal("login failed", err)
	}

	logger.Log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return token, user, nil
}

// Authenticate resolves a bearer token to a live, active account. It is the
// first half of the gate on every privileged operation; the role check is
// applied separately per route.
func (s *AuthService) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.Auth("no token provided")
	}

	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, apperrors.Auth("invalid token")
	}

	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil {
		return nil, apperrors.Internal("authentication failed", err)
	}
	if user == nil {
		// Token may outlive a hard-deleted account.
		return nil, apperrors.Auth("user not found")
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account deactivated")
	}

	return user, nil
}
