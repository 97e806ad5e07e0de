package handler

import (
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// MaxRequestBodySize caps every API request body
const MaxRequestBodySize = "1M"

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, dualAuth *middleware.DualAuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, apiTokenHandler *APITokenHandler, budgetHandler *BudgetHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	// Live budget events
	if wsHandler != nil {
		e.GET("/ws", wsHandler.HandleWS)
	}

	// API version 1
	api := e.Group("/api/v1", echomiddleware.BodyLimit(MaxRequestBodySize))

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Auth routes (session only)
	session := auth.Group("", dualAuth.SessionOnly())
	session.GET("/me", authHandler.Me)
	session.POST("/logout", authHandler.Logout)

	// API token management (session only)
	apiTokens := api.Group("/api-tokens", dualAuth.SessionOnly())
	apiTokens.GET("", apiTokenHandler.GetAPITokens)
	apiTokens.POST("", apiTokenHandler.CreateAPIToken)
	apiTokens.DELETE("/:id", apiTokenHandler.RevokeAPIToken)

	// Session or API token; API tokens are rate limited
	protected := []echo.MiddlewareFunc{dualAuth.Authenticate(), middleware.RateLimitMiddleware(rateLimiter)}

	budgets := api.Group("/budgets", protected...)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.PUT("/:id/status", budgetHandler.UpdateBudgetStatus)
	budgets.GET("/:id/pdf", budgetHandler.ExportPDF)
	budgets.GET("/:id/pdf/url", budgetHandler.GetPDFURL)

	dashboard := api.Group("/dashboard", protected...)
	dashboard.GET("/summary", dashboardHandler.GetSummary)
}
