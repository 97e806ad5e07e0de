package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

func newTestDualAuth(sessionUser, tokenUser uuid.UUID) (*DualAuthMiddleware, *MockSessionValidator, *MockAPITokenValidator) {
	sessions := newMockSessionValidator("session-token", sessionUser)
	tokens := &MockAPITokenValidator{token: &domain.APIToken{ID: uuid.New(), UserID: tokenUser}}
	return NewDualAuthMiddleware(NewAuthMiddleware(sessions), NewAPITokenAuthMiddleware(tokens)), sessions, tokens
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := mw(handler)(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	return rec
}

func TestDualAuth_Authenticate_RoutesByTokenKind(t *testing.T) {
	sessionUser := uuid.New()
	tokenUser := uuid.New()

	tests := []struct {
		name        string
		header      string
		cookie      string
		wantUser    uuid.UUID
		wantAPIAuth bool
	}{
		{"bearer session", "Bearer session-token", "", sessionUser, false},
		{"session cookie", "", "session-token", sessionUser, false},
		{"bearer api token", "Bearer orc_abc", "", tokenUser, true},
		{"bare api token", "orc_abc", "", tokenUser, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dual, _, _ := newTestDualAuth(sessionUser, tokenUser)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}

			handlerCalled := false
			rec := runMiddleware(t, dual.Authenticate(), req, func(c echo.Context) error {
				handlerCalled = true
				if GetUserID(c) != tt.wantUser {
					t.Errorf("Expected user %s, got %s", tt.wantUser, GetUserID(c))
				}
				if IsAPITokenAuth(c) != tt.wantAPIAuth {
					t.Errorf("Expected IsAPITokenAuth=%v", tt.wantAPIAuth)
				}
				return c.NoContent(http.StatusOK)
			})

			if !handlerCalled {
				t.Error("Handler was not called")
			}
			if rec.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", rec.Code)
			}
		})
	}
}

func TestDualAuth_SessionOnly_RejectsAPIToken(t *testing.T) {
	for _, header := range []string{"Bearer orc_testtoken123", "orc_testtoken123"} {
		t.Run(header, func(t *testing.T) {
			dual, _, tokens := newTestDualAuth(uuid.New(), uuid.New())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/api-tokens", nil)
			req.Header.Set("Authorization", header)

			rec := runMiddleware(t, dual.SessionOnly(), req, func(c echo.Context) error {
				t.Error("Handler should not be called")
				return nil
			})

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
			if tokens.calls != 0 {
				t.Error("API token must not be validated on a session-only route")
			}
		})
	}
}

func TestDualAuth_SessionOnly_AcceptsSession(t *testing.T) {
	userID := uuid.New()
	dual, _, _ := newTestDualAuth(userID, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/api-tokens", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-token"})

	rec := runMiddleware(t, dual.SessionOnly(), req, func(c echo.Context) error {
		if GetUserID(c) != userID {
			t.Errorf("Expected user %s, got %s", userID, GetUserID(c))
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestDualAuth_MissingOrInvalidCredentials(t *testing.T) {
	dual, _, _ := newTestDualAuth(uuid.New(), uuid.New())

	tests := []struct {
		name       string
		header     string
		middleware echo.MiddlewareFunc
	}{
		{"Authenticate - missing", "", dual.Authenticate()},
		{"SessionOnly - missing", "", dual.SessionOnly()},
		{"Authenticate - no space", "BearerToken", dual.Authenticate()},
		{"SessionOnly - Basic auth", "Basic dXNlcjpwYXNz", dual.SessionOnly()},
		{"Authenticate - unknown session", "Bearer expired", dual.Authenticate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := runMiddleware(t, tt.middleware, req, func(c echo.Context) error {
				t.Error("Handler should not be called")
				return nil
			})

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}
