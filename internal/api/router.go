package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feedbackbox/feedback-api/internal/api/handler"
	"github.com/feedbackbox/feedback-api/internal/api/middleware"
	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/service"
	"github.com/feedbackbox/feedback-api/internal/infrastructure/config"
	mongodb "github.com/feedbackbox/feedback-api/internal/infrastructure/db/mongo"
	redisdb "github.com/feedbackbox/feedback-api/internal/infrastructure/db/redis"
	"github.com/feedbackbox/feedback-api/internal/infrastructure/oauth"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, providers *oauth.Registry, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsProduction())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("feedbackbox"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	feedbackRepo := mongodb.NewFeedbackRepository(db)
	stateStore := redisdb.NewStateStore(rdb)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, feedbackRepo, hasher, tokens, log)
	userService := service.NewUserService(userRepo, log)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, log)
	adminService := service.NewAdminService(userRepo, feedbackRepo, log)
	linkService := service.NewLinkService(userRepo, log)

	sessions := middleware.NewSessionResolver(tokens, userRepo, log)
	requireAuth := sessions.Required()
	optionalAuth := sessions.Optional()
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(authService, userService, cfg.TokenTTL, cfg.IsProduction())
	oauthHandler := handler.NewOAuthHandler(providers, stateStore, linkService, tokens, cfg.FrontendURL, cfg.TokenTTL, cfg.IsProduction(), log)
	userHandler := handler.NewUserHandler(userService, feedbackService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	adminHandler := handler.NewAdminHandler(adminService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)
	auth.PUT("/change-password", authHandler.ChangePassword, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.DELETE("/account", authHandler.DeleteAccount, requireAuth)
	auth.GET("/:provider", oauthHandler.Begin)
	auth.GET("/:provider/callback", oauthHandler.Callback)

	// --- Public profile routes ---
	users := e.Group("/api/users")
	users.GET("/:username", userHandler.Profile, optionalAuth)
	users.POST("/:username/feedback", userHandler.SubmitFeedback)

	// --- Inbox routes ---
	feedback := e.Group("/api/feedback", requireAuth)
	feedback.GET("", feedbackHandler.List)
	feedback.PUT("/:id/read", feedbackHandler.SetRead)
	feedback.DELETE("/:id", feedbackHandler.Delete)

	// --- Admin routes ---
	admin := e.Group("/api/admin", requireAuth, requireAdmin)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/feedback", adminHandler.ListFeedback)
	admin.PUT("/users/:id", adminHandler.SetUserActive)
	admin.DELETE("/feedback/:id", adminHandler.DeleteFeedback)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
