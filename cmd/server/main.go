package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	_ "cookonomics/docs" // swagger docs

	"cookonomics/internal/auth"
	"cookonomics/internal/cache"
	"cookonomics/internal/config"
	"cookonomics/internal/db"
	"cookonomics/internal/handler"
	"cookonomics/internal/logger"
	"cookonomics/internal/repository"
	"cookonomics/internal/router"
	"cookonomics/internal/service"
	"cookonomics/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// @title Cookonomics API
// @version 1.0
// @description Multi-user item inventory API with JWT authentication.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Service: handler.ServiceName})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: handler.ServiceName,
	})

	gormDB, err := db.NewMySQL(cfg.MySQL, cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.Redis)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("user cache unavailable, serving from the database")
	}

	e := echo.New()
	wire(cfg, log, gormDB, cacheClient, e)

	logDocsURL(log, cfg)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

// wire builds repositories, services and handlers and registers routes on e.
func wire(
	cfg *config.Config,
	log zerolog.Logger,
	gormDB *gorm.DB,
	cacheClient *cache.Client,
	e *echo.Echo,
) {
	validator := validation.New()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("jwt init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)

	// Initialize services
	userService := service.NewUserService(userRepo, hasher, validator, cacheClient, cfg.Redis.UserCacheTTL)
	itemService := service.NewItemService(itemRepo, validator, log)
	authService, err := service.NewAuthService(userService, hasher, jwtService, cfg.AccessTokenTTL(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init")
	}

	// Initialize handlers
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle")
	}
	checks := map[string]handler.Pinger{"mysql": sqlDB.PingContext}
	if cacheClient != nil {
		checks["redis"] = cacheClient.Ping
	}

	router.Register(e, cfg, log, authService, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Users:  handler.NewUserHandler(userService),
		Items:  handler.NewItemHandler(itemService),
		Health: handler.NewHealthHandler(checks),
	})
}

func logDocsURL(log zerolog.Logger, cfg *config.Config) {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	log.Info().Str("url", host+"/docs/index.html").Msg("swagger documentation available")
}
