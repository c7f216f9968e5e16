package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"intrak/internal/app"
	"intrak/internal/config"
	"intrak/internal/logger"
	"intrak/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	log.Info().Msg("starting seed script")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init")
	}
	defer storage.Close()

	authService, _, err := app.NewAuthService(cfg, storage.Users)
	if err != nil {
		log.Fatal().Err(err).Msg("auth init")
	}

	res, err := seed.Users(ctx, authService, seed.DemoUsers)
	if err != nil {
		log.Fatal().Err(err).Msg("seed users")
	}
	log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("seed completed")
}
