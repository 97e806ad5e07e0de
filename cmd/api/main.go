package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/auth"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/config"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/handler"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/pdf"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/repository/postgres"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/repository/storage"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/websocket"
	"github.com/jhservicos/orcamentos/orcamentos-backend/web"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Orçamentos API
// @version 1.0
// @description Budgets (orçamentos) for JH Serviços: authentication, budget lifecycle, dashboard and PDF export.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a session token or an orc_ API token.
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	apiTokenRepo := postgres.NewAPITokenRepository(pool)

	// PDF archive is optional
	var documents storage.DocumentStorage
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3DocumentRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 document storage")
		}
		documents = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("PDF archive enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, generated PDFs will not be archived")
	}

	logo, err := pdf.LoadLogo(cfg.PDF.LogoPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PDF.LogoPath).Msg("Failed to load brand logo")
	}
	renderer, err := pdf.NewRenderer(pdf.Brand{
		Name:         cfg.PDF.BrandName,
		TaxID:        cfg.PDF.TaxID,
		Address:      cfg.PDF.Address,
		City:         cfg.PDF.City,
		Phone:        cfg.PDF.Phone,
		Email:        cfg.PDF.Email,
		ValidityDays: cfg.PDF.ValidityDays,
	}, logo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create PDF renderer")
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}

	// Live events
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	apiTokenService := service.NewAPITokenService(apiTokenRepo)
	budgetService := service.NewBudgetService(budgetRepo, documents)
	budgetService.SetEventPublisher(hub)
	exportService := service.NewExportService(budgetRepo, renderer, documents, cfg.S3.URLExpiry)
	exportService.SetEventPublisher(hub)
	dashboardService := service.NewDashboardService(budgetRepo)

	// Initialize auth middleware
	sessionAuth := middleware.NewAuthMiddleware(tokens)
	apiTokenAuth := middleware.NewAPITokenAuthMiddleware(apiTokenService)
	dualAuth := middleware.NewDualAuthMiddleware(sessionAuth, apiTokenAuth)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.APIRateLimit, middleware.DefaultBurstSize)
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	apiTokenHandler := handler.NewAPITokenHandler(apiTokenService)
	budgetHandler := handler.NewBudgetHandler(budgetService, exportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := handler.NewWebSocketHandler(hub, websocket.NewSessionTokenValidator(tokens, authService), cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		// The swagger UI ships inline scripts; the client does not
		ContentSecurityPolicy: "default-src 'self'; connect-src 'self' ws: wss:; img-src 'self' data: blob:",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, dualAuth, rateLimiter, authHandler, apiTokenHandler, budgetHandler, dashboardHandler, wsHandler)

	// Browser client
	web.Register(e)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
