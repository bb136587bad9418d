package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/bmp-ai/brandhub/internal/adapter/auth"
	"github.com/bmp-ai/brandhub/internal/adapter/backend"
	"github.com/bmp-ai/brandhub/internal/adapter/store"
	"github.com/bmp-ai/brandhub/internal/handler"
	"github.com/bmp-ai/brandhub/internal/middleware"
	"github.com/bmp-ai/brandhub/internal/service"
	"github.com/bmp-ai/brandhub/internal/tenant"
	"github.com/bmp-ai/brandhub/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Brand Hub",
		"port", cfg.Port,
		"base_domains", cfg.BaseDomains,
		"identity_configured", cfg.IdentityConfigured(),
		"dev_bypass", cfg.DevBypassAuth,
	)
	if cfg.DevBypassAuth {
		slog.Warn("DEV_BYPASS_AUTH is enabled, protected routes are open")
	}

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	identity := auth.NewGoTrueProvider(cfg.IdentityURL, cfg.IdentityAnonKey, cfg.IdentityJWTSecret)
	analysisClient := backend.NewAnalysisClient(cfg.AnalysisBaseURL)
	contentClient := backend.NewContentClient(cfg.AnalysisBaseURL)
	khubClient := backend.NewKHubClient(cfg.KHubURL)

	resolver := tenant.NewResolver(cfg.BaseDomains, cfg.SubdomainAliases)

	// ── Services ─────────────────────────────────────────────────────────
	authService := service.NewAuthService(identity, cfg.BootstrapTimeout)
	hubService := service.NewHubService(analysisClient, pgStore)
	contentService := service.NewContentService(analysisClient, contentClient)
	chatService := service.NewChatService(khubClient)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(pgStore))

	// Access gate: tenant resolution, path rewrite, auth on protected pages
	app.Use(middleware.AccessGate(middleware.GateConfig{
		Resolver:    resolver,
		PublicPaths: cfg.PublicPaths,
		Identity:    identity,
		CookieName:  cfg.SessionCookie,
		LoginPath:   "/login",
		Configured:  cfg.IdentityConfigured(),
		DevBypass:   cfg.DevBypassAuth,
	}))

	// ── Public Routes ────────────────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService, pgStore, cfg.SessionCookie)
	authHandler.Register(app)

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	contentHandler := handler.NewContentHandler(contentService, pgStore)
	contentHandler.Register(app.Group("/api/v1"))

	// ── Protected API Routes ─────────────────────────────────────────────
	sessionMiddleware := middleware.SessionMiddleware(middleware.SessionConfig{
		Identity:   identity,
		CookieName: cfg.SessionCookie,
		Configured: cfg.IdentityConfigured(),
		DevBypass:  cfg.DevBypassAuth,
	})

	api := app.Group("/api/v1", sessionMiddleware)

	hubHandler := handler.NewHubHandler(hubService, authService, pgStore, resolver, cfg.SessionCookie)
	hubHandler.RegisterAPI(api)

	chatHandler := handler.NewChatHandler(chatService, pgStore, resolver)
	chatHandler.Register(api)

	auditHandler := handler.NewAuditHandler(pgStore)
	auditHandler.Register(api)

	// ── Page Routes ──────────────────────────────────────────────────────
	// Static paths first, then the tenant-parameterized hub pages. Subdomain
	// requests arrive here already rewritten by the access gate.
	contentHandler.RegisterPages(app)
	hubHandler.RegisterPages(app)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
