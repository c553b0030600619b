package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/api"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
	"github.com/feedbackbox/feedback-api/internal/infrastructure/config"
	mongodb "github.com/feedbackbox/feedback-api/internal/infrastructure/db/mongo"
	redisdb "github.com/feedbackbox/feedback-api/internal/infrastructure/db/redis"
	"github.com/feedbackbox/feedback-api/internal/infrastructure/oauth"
	"github.com/feedbackbox/feedback-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	providers := buildProviders(ctx, cfg, log)

	e := api.NewRouter(db, rdb, providers, cfg, log)

	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}

// buildProviders registers every OAuth provider with complete configuration.
// A provider with missing credentials is skipped rather than fatal so local
// development works without any OAuth setup.
func buildProviders(ctx context.Context, cfg *config.Config, log zerolog.Logger) *oauth.Registry {
	var list []ports.OAuthProvider

	if cfg.OAuth.Google.ClientID != "" {
		google, err := oauth.NewGoogleProvider(ctx, cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURL)
		if err != nil {
			log.Fatal().Err(err).Msg("google oauth init failed")
		}
		list = append(list, google)
	}

	if cfg.OAuth.GitHub.ClientID != "" {
		github, err := oauth.NewGitHubProvider(cfg.OAuth.GitHub.ClientID, cfg.OAuth.GitHub.ClientSecret, cfg.OAuth.GitHub.RedirectURL)
		if err != nil {
			log.Fatal().Err(err).Msg("github oauth init failed")
		}
		list = append(list, github)
	}

	if len(list) == 0 {
		log.Warn().Msg("no oauth providers configured")
	}

	return oauth.NewRegistry(list...)
}
