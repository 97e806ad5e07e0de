package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SessionCookieName is the cookie carrying the session token for browser clients
const SessionCookieName = "session"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the validated session
	SessionKey contextKey = "session"
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key for the authenticated username
	UsernameKey contextKey = "username"
)

// SessionValidator validates session tokens
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Session, error)
}

// AuthMiddleware provides session token validation middleware
type AuthMiddleware struct {
	validator SessionValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate returns an Echo middleware that validates the session token from
// the Authorization header or, for browsers, the session cookie
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, detail := sessionToken(c)
			if token == "" {
				return unauthorizedError(c, detail)
			}
			return m.authenticateWithToken(token)(next)(c)
		}
	}
}

func (m *AuthMiddleware) authenticateWithToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := m.validator.Validate(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Session validation failed")
				return unauthorizedError(c, "Invalid or expired session")
			}

			ctx := context.WithValue(c.Request().Context(), SessionKey, session)
			ctx = context.WithValue(ctx, UserIDKey, session.UserID)
			ctx = context.WithValue(ctx, UsernameKey, session.Username)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// sessionToken returns the bearer token or the session cookie value. When none
// is usable it returns an empty token and the reason.
func sessionToken(c echo.Context) (string, string) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", "Invalid authorization header format"
		}
		return strings.TrimSpace(parts[1]), ""
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, ""
	}
	return "", "Missing authorization header"
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetUsername extracts the authenticated username from the context
func GetUsername(c echo.Context) string {
	if name, ok := c.Request().Context().Value(UsernameKey).(string); ok {
		return name
	}
	return ""
}

// GetSession extracts the validated session from the context. It is nil for
// requests authenticated with an API token.
func GetSession(c echo.Context) *auth.Session {
	if s, ok := c.Request().Context().Value(SessionKey).(*auth.Session); ok {
		return s
	}
	return nil
}
