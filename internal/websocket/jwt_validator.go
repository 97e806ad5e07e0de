package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/auth"
)

// ErrInvalidToken is returned when session validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrUserNotFound is returned when the token's user no longer exists
var ErrUserNotFound = errors.New("user not found")

// SessionValidator validates session tokens
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Session, error)
}

// UserLookup confirms that a user still exists
type UserLookup interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SessionTokenValidator validates the session token passed on the websocket URL
type SessionTokenValidator struct {
	sessions SessionValidator
	users    UserLookup
	timeout  time.Duration
}

// NewSessionTokenValidator creates a SessionTokenValidator. users may be nil.
func NewSessionTokenValidator(sessions SessionValidator, users UserLookup) *SessionTokenValidator {
	return &SessionTokenValidator{
		sessions: sessions,
		users:    users,
		timeout:  5 * time.Second,
	}
}

// ValidateToken validates a session token and returns the owning user ID
func (v *SessionTokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	session, err := v.sessions.Validate(ctx, token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	if v.users != nil {
		exists, err := v.users.UserExists(ctx, session.UserID)
		if err != nil || !exists {
			return uuid.Nil, ErrUserNotFound
		}
	}

	return session.UserID, nil
}
