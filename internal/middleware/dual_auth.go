package middleware

import (
	"strings"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DualAuthMiddleware provides middleware that accepts both session and API token authentication
type DualAuthMiddleware struct {
	sessionAuth  *AuthMiddleware
	apiTokenAuth *APITokenAuthMiddleware
}

// NewDualAuthMiddleware creates a new DualAuthMiddleware
func NewDualAuthMiddleware(sessionAuth *AuthMiddleware, apiTokenAuth *APITokenAuthMiddleware) *DualAuthMiddleware {
	return &DualAuthMiddleware{
		sessionAuth:  sessionAuth,
		apiTokenAuth: apiTokenAuth,
	}
}

// Authenticate returns an Echo middleware that routes API tokens to token
// validation and everything else to session validation
func (m *DualAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")

			// Accept API tokens without Bearer prefix (for Swagger/simple clients)
			if service.IsAPIToken(authHeader) {
				return m.apiTokenAuth.authenticateWithToken(authHeader)(next)(c)
			}

			token, detail := sessionToken(c)
			if token == "" {
				return unauthorizedError(c, detail)
			}

			if service.IsAPIToken(token) {
				log.Debug().Msg("Attempting API token authentication")
				return m.apiTokenAuth.authenticateWithToken(token)(next)(c)
			}

			log.Debug().Msg("Attempting session authentication")
			return m.sessionAuth.authenticateWithToken(token)(next)(c)
		}
	}
}

// SessionOnly returns a middleware that only accepts session authentication.
// Use this for account management routes that API tokens must not reach.
func (m *DualAuthMiddleware) SessionOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, detail := sessionToken(c)
			if token == "" {
				if service.IsAPIToken(strings.TrimSpace(c.Request().Header.Get("Authorization"))) {
					return unauthorizedError(c, "This endpoint requires session authentication")
				}
				return unauthorizedError(c, detail)
			}

			if service.IsAPIToken(token) {
				log.Debug().Msg("API token rejected on session-only route")
				return unauthorizedError(c, "This endpoint requires session authentication")
			}

			return m.sessionAuth.authenticateWithToken(token)(next)(c)
		}
	}
}
