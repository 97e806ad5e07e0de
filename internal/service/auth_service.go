package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (string, time.Time, error)
}

// AuthService handles registration, login and session issuance
type AuthService struct {
	userRepo domain.UserRepository
	tokens   TokenIssuer
	hashCost int
	// dummyHash keeps unknown-user logins as slow as wrong-password ones
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens TokenIssuer) *AuthService {
	return newAuthServiceWithCost(userRepo, tokens, bcrypt.DefaultCost)
}

func newAuthServiceWithCost(userRepo domain.UserRepository, tokens TokenIssuer, cost int) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("orcamentos-dummy-password"), cost)
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		hashCost:  cost,
		dummyHash: dummy,
	}
}

// AuthResult represents the result of a successful register or login
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NormalizeUsername trims and lowercases a username
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateCredentials(username, password string) error {
	var errs domain.ValidationErrors
	switch {
	case len(username) < domain.MinUsernameLength || len(username) > domain.MaxUsernameLength:
		errs = append(errs, domain.FieldError{Field: "username", Message: "Username must be between 3 and 50 characters"})
	case !usernamePattern.MatchString(username):
		errs = append(errs, domain.FieldError{Field: "username", Message: "Username may only contain letters, numbers, dots, dashes and underscores"})
	}
	if len(password) < domain.MinPasswordLength || len(password) > domain.MaxPasswordLength {
		errs = append(errs, domain.FieldError{Field: "password", Message: "Password must be between 6 and 72 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Register creates a new user and signs them in
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = NormalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUsernameTaken) {
			log.Error().Err(err).Str("username", username).Msg("Failed to create user")
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return s.issue(user)
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = NormalizeUsername(username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to load user")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Str("user_id", user.ID.String()).Msg("Login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to issue session token")
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UserExists reports whether the user is still present
func (s *AuthService) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
