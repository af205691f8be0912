package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EmailVerifier reports whether an email has just completed OTP verification.
type EmailVerifier interface {
	ConsumeVerification(ctx context.Context, email string) (bool, error)
}

// UserService handles registration, login and account lookups.
type UserService struct {
	store    UserStore
	tokens   *TokenIssuer
	verifier EmailVerifier
	logger   *logging.SafeLogger
	clock    utils.Clock
	cost     int
}

// UserServiceOption configures a UserService.
type UserServiceOption func(*UserService)

// WithUserClock overrides the clock used for timestamps.
func WithUserClock(clock utils.Clock) UserServiceOption {
	return func(s *UserService) {
		s.clock = clock
	}
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *UserService) {
		s.cost = cost
	}
}

// NewUserService creates a new user service
func NewUserService(store UserStore, tokens *TokenIssuer, verifier EmailVerifier, logger *logging.SafeLogger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		store:    store,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger,
		clock:    utils.SystemClock,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user account with the user role.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req == nil {
		return nil, models.NewValidationError("body", "is required")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req).Err(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, req.Username, req.Email, req.Password, models.RoleUser, false)
}

func (s *UserService) createUser(ctx context.Context, username, email, password string, role models.Role, verified bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock()
	user := &models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		IsEmailVerified: verified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrEmailTaken) || errors.Is(err, models.ErrUsernameTaken) {
			return nil, err
		}
		s.logger.Error("failed to insert user", zap.Error(err), zap.String("email", observability.MaskEmail(email)))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", observability.MaskEmail(email)),
		zap.String("role", string(role)))
	return user, nil
}

// Login checks the credentials and issues a token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// AdminLogin is Login restricted to admin accounts.
func (s *UserService) AdminLogin(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		s.logger.Warn("non-admin attempted admin login", zap.String("user_id", user.ID.Hex()))
		return nil, models.ErrNotAdmin
	}
	return s.issue(user)
}

func (s *UserService) authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req == nil {
		return nil, models.NewValidationError("body", "is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req).Err(); err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUser returns the account with the given hex id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByID(ctx, oid)
	if err != nil {
		return nil, wrapNotFound(err, models.ErrUserNotFound, "failed to load user")
	}
	return user, nil
}

// MarkEmailVerified flags the account's email as verified. The email must
// have completed OTP verification within the verification window.
func (s *UserService) MarkEmailVerified(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.FindUserByEmail(ctx, email); err != nil {
		return wrapNotFound(err, models.ErrUserNotFound, "failed to load user")
	}

	ok, err := s.verifier.ConsumeVerification(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check verification: %w", err)
	}
	if !ok {
		return models.ErrEmailNotVerified
	}

	if err := s.store.SetEmailVerified(ctx, email, s.clock()); err != nil {
		return wrapNotFound(err, models.ErrUserNotFound, "failed to mark email verified")
	}
	s.logger.Info("email verified", zap.String("email", observability.MaskEmail(email)))
	return nil
}

// EnsureAdmin creates an admin account unless the email is already registered.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.createUser(ctx, username, email, password, models.RoleAdmin, true)
}
