package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/avesguide/academy_api/services"
)

// @title Aves Academy API
// @version 1.0
// @description Lesson progression and activity validation service for the species-watching academy
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	var ctx *context.Context
	var err error

	if os.Getenv("DB_DRIVER") == "sqlite" {
		ctx, err = context.NewCtx(
			&services.SqliteService{},
			&services.RedisService{},
			&services.MinIOService{},
			&services.MonitoringService{},
			&services.RateLimitService{},
			&services.CourseService{},
			&services.MediaService{},
			&services.HttpService{},
		)
	} else {
		ctx, err = context.NewCtx(
			&services.PostgresService{},
			&services.RedisService{},
			&services.MinIOService{},
			&services.MonitoringService{},
			&services.RateLimitService{},
			&services.CourseService{},
			&services.MediaService{},
			&services.HttpService{},
		)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}
