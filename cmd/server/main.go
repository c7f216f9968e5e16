package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	_ "intrak/docs" // swagger docs

	"intrak/internal/app"
	"intrak/internal/cache"
	"intrak/internal/config"
	"intrak/internal/handler"
	"intrak/internal/logger"
	"intrak/internal/router"
	"intrak/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Intrak Auth API
// @version 1.0
// @description Registration, login and bearer-token protected profile reads for the internship tracker.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init")
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient != nil {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, profile cache degraded")
		}
		defer cacheClient.Close()
	}

	authService, jwtService, err := app.NewAuthService(cfg, storage.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("auth init")
	}
	userService := service.NewUserService(storage.Users, cacheClient, cfg.StorageTimeout)

	healthHandler := handler.NewHealthHandler(storage.Users, nil)
	if cacheClient != nil {
		healthHandler = handler.NewHealthHandler(storage.Users, cacheClient)
	}

	e := echo.New()
	router.Register(
		e,
		cfg,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		healthHandler,
		handler.NewSeedHandler(authService),
	)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("server starting")
		log.Info().Msgf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exiting")
}
