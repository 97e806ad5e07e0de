package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/pdf"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	tokens := newTestTokenManager(t)
	budgetRepo := testutil.NewMockBudgetRepository()

	authService := service.NewAuthService(testutil.NewMockUserRepository(), tokens)
	apiTokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	renderer, err := pdf.NewRenderer(pdf.Brand{Name: "JH Serviços"}, nil)
	require.NoError(t, err)

	dualAuth := middleware.NewDualAuthMiddleware(
		middleware.NewAuthMiddleware(tokens),
		middleware.NewAPITokenAuthMiddleware(apiTokenService),
	)
	rateLimiter := middleware.NewRateLimiterWithConfig(2, 2)
	t.Cleanup(rateLimiter.Stop)

	e := echo.New()
	RegisterRoutes(e, dualAuth, rateLimiter,
		NewAuthHandler(authService, false),
		NewAPITokenHandler(apiTokenService),
		NewBudgetHandler(service.NewBudgetService(budgetRepo, nil), service.NewExportService(budgetRepo, renderer, nil, time.Minute)),
		NewDashboardHandler(service.NewDashboardService(budgetRepo)),
		nil,
	)
	return e
}

func serve(e *echo.Echo, method, path, body string, prepare func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(req *http.Request) { req.AddCookie(cookie) }
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) { req.Header.Set(echo.HeaderAuthorization, "Bearer "+token) }
}

func TestRoutes_SessionAndAPITokenFlow(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/register", `{"username":"maria","password":"segredo123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	rec = serve(e, http.MethodPost, "/api/v1/budgets", sampleBudgetJSON, withCookie(cookie))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(e, http.MethodPost, "/api/v1/api-tokens", `{"description":"Planilha"}`, withCookie(cookie))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.CreateAPITokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(e, http.MethodGet, "/api/v1/budgets", "", withBearer(created.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	var budgets []BudgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &budgets))
	assert.Len(t, budgets, 1)

	// API tokens cannot manage tokens
	rec = serve(e, http.MethodGet, "/api/v1/api-tokens", "", withBearer(created.Token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v1/auth/me", "", withCookie(cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_APITokenRateLimited(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/register", `{"username":"maria","password":"segredo123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = serve(e, http.MethodPost, "/api/v1/api-tokens", `{"description":"Planilha"}`, withBearer(session.Token))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.CreateAPITokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	for i := 0; i < 2; i++ {
		rec = serve(e, http.MethodGet, "/api/v1/dashboard/summary", "", withBearer(created.Token))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = serve(e, http.MethodGet, "/api/v1/dashboard/summary", "", withBearer(created.Token))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Session requests are not limited
	rec = serve(e, http.MethodGet, "/api/v1/dashboard/summary", "", withBearer(session.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_Unauthenticated(t *testing.T) {
	e := newTestServer(t)

	paths := []string{"/api/v1/budgets", "/api/v1/dashboard/summary", "/api/v1/api-tokens", "/api/v1/auth/me"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := serve(e, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "https://orcamentos.app/errors/unauthorized")
		})
	}

	rec := serve(e, http.MethodGet, "/api/v1/budgets", "", withBearer("orc_unknown"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_OpenAPISpec(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/budgets/{id}/status")
}

func TestRoutes_RejectsOversizedBody(t *testing.T) {
	e := newTestServer(t)

	body := `{"username":"maria","password":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := serve(e, http.MethodPost, "/api/v1/auth/register", body, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
