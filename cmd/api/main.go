package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"station-sizing/internal/api/handlers"
	"station-sizing/internal/api/middleware"
	"station-sizing/internal/config"
	"station-sizing/internal/engine"
	"station-sizing/internal/logging"
	"station-sizing/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logging.New("api")

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		cfg = loaded
		log.Info().Str("path", path).Msg("config loaded")
	}

	ctx := context.Background()

	// Without a database only the standalone calculation endpoints are
	// served; project CRUD needs persistence.
	var db *repository.DB
	if url := os.Getenv("DATABASE_URL"); url != "" {
		var err error
		db, err = repository.New(ctx, url)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		log.Info().Msg("database ready")
	} else {
		log.Warn().Msg("DATABASE_URL not set, project endpoints disabled")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logging.New("http")))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	eng := engine.New(cfg, logging.New("engine"))
	handlers.New(eng, logging.New("handlers"), db).RegisterRoutes(router)

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
