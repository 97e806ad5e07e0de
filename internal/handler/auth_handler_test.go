package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/auth"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// Helper to set up auth context
func setupAuthContext(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UsernameKey, "tester")
	c.SetRequest(c.Request().WithContext(ctx))
}

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	manager, err := auth.NewTokenManager([]byte(testSecret), "orcamentos-api", "orcamentos-web", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return manager
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *testutil.MockUserRepository, *auth.TokenManager) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	tokens := newTestTokenManager(t)
	return NewAuthHandler(service.NewAuthService(userRepo, tokens), true), userRepo, tokens
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestRegister_Success(t *testing.T) {
	e := echo.New()
	h, userRepo, tokens := setupAuthHandler(t)

	c, rec := postJSON(e, "/api/v1/auth/register", `{"username":" Joao.Silva ","password":"segredo123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.User.Username != "joao.silva" {
		t.Errorf("Expected normalized username 'joao.silva', got %q", resp.User.Username)
	}
	if _, ok := userRepo.ByUsername["joao.silva"]; !ok {
		t.Error("Expected user to be stored")
	}

	session, err := tokens.Validate(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("Expected issued token to validate, got %v", err)
	}
	if session.UserID.String() != resp.User.ID {
		t.Errorf("Expected token subject %s, got %s", resp.User.ID, session.UserID)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("Expected session cookie")
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Expected HttpOnly, Secure, SameSite=Lax cookie, got %+v", cookie)
	}
	if cookie.Value != resp.Token {
		t.Error("Expected cookie to carry the session token")
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	e := echo.New()
	h, _, _ := setupAuthHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"short username", `{"username":"jo","password":"segredo123"}`},
		{"bad characters", `{"username":"joão silva","password":"segredo123"}`},
		{"short password", `{"username":"joao","password":"123"}`},
		{"unknown field", `{"username":"joao","password":"segredo123","admin":true}`},
		{"malformed json", `{"username":`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(e, "/api/v1/auth/register", tt.body)
			if err := h.Register(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	e := echo.New()
	h, _, _ := setupAuthHandler(t)

	c, rec := postJSON(e, "/api/v1/auth/register", `{"username":"maria","password":"segredo123"}`)
	_ = h.Register(c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected first registration to succeed, got %d", rec.Code)
	}

	c, rec = postJSON(e, "/api/v1/auth/register", `{"username":"MARIA","password":"outrasenha"}`)
	_ = h.Register(c)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLogin_RoundTripWithMe(t *testing.T) {
	e := echo.New()
	h, _, tokens := setupAuthHandler(t)

	c, rec := postJSON(e, "/api/v1/auth/register", `{"username":"carlos","password":"segredo123"}`)
	_ = h.Register(c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Register failed with %d", rec.Code)
	}

	c, rec = postJSON(e, "/api/v1/auth/login", `{"username":"carlos","password":"segredo123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var login AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if sessionCookie(rec) == nil {
		t.Error("Expected session cookie on login")
	}

	// Me through the real session middleware
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := middleware.NewAuthMiddleware(tokens).Authenticate()(h.Me)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var me UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if me.Username != "carlos" || me.ID != login.User.ID {
		t.Errorf("Unexpected user %+v", me)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := echo.New()
	h, _, _ := setupAuthHandler(t)

	c, _ := postJSON(e, "/api/v1/auth/register", `{"username":"ana","password":"segredo123"}`)
	_ = h.Register(c)

	for _, body := range []string{
		`{"username":"ana","password":"errada123"}`,
		`{"username":"ninguem","password":"segredo123"}`,
	} {
		c, rec := postJSON(e, "/api/v1/auth/login", body)
		if err := h.Login(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Body %s: expected status 401, got %d", body, rec.Code)
		}
		if sessionCookie(rec) != nil {
			t.Error("No cookie expected on failed login")
		}
	}
}

func TestMe_UserGone(t *testing.T) {
	e := echo.New()
	h, _, _ := setupAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := h.Me(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	e := echo.New()
	h, _, _ := setupAuthHandler(t)

	c, rec := postJSON(e, "/api/v1/auth/logout", "")
	setupAuthContext(c, uuid.New())

	if err := h.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("Expected expiring session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("Expected cleared cookie, got %+v", cookie)
	}
}
