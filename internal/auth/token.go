// Package auth issues and validates the HS256 session tokens used by the
// browser client, the REST API and the websocket endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

// ErrInvalidToken is returned when a session token fails validation
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the private claims carried next to the registered ones
type SessionClaims struct {
	Username string `json:"username"`
}

// Validate implements validator.CustomClaims
func (c *SessionClaims) Validate(ctx context.Context) error {
	if c.Username == "" {
		return errors.New("username claim is required")
	}
	return nil
}

// Session is the identity extracted from a valid token
type Session struct {
	UserID    uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// TokenManager signs and validates session tokens with a shared secret
type TokenManager struct {
	signer    jose.Signer
	validator *validator.Validator
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenManager creates a TokenManager for the given secret and token lifetime
func NewTokenManager(secret []byte, issuer, audience string, ttl time.Duration) (*TokenManager, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}

	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &SessionClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	return &TokenManager{
		signer:    signer,
		validator: jwtValidator,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new session token for a user
func (m *TokenManager) Issue(userID uuid.UUID, username string) (string, time.Time, error) {
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)

	token, err := jwt.Signed(m.signer).
		Claims(jwt.Claims{
			Subject:  userID.String(),
			Issuer:   m.issuer,
			Audience: jwt.Audience{m.audience},
			IssuedAt: jwt.NewNumericDate(issuedAt),
			Expiry:   jwt.NewNumericDate(expiresAt),
			ID:       uuid.NewString(),
		}).
		Claims(SessionClaims{Username: username}).
		CompactSerialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate checks signature, issuer, audience and expiry and returns the session
func (m *TokenManager) Validate(ctx context.Context, token string) (*Session, error) {
	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(validated.RegisteredClaims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	custom, ok := validated.CustomClaims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Session{
		UserID:    userID,
		Username:  custom.Username,
		ExpiresAt: time.Unix(validated.RegisteredClaims.Expiry, 0).UTC(),
	}, nil
}
