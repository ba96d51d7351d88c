package main

import (
	"fmt"
	"os"

	"github.com/ariebrainware/psych-practice/config"
	"github.com/ariebrainware/psych-practice/endpoint"
	"github.com/ariebrainware/psych-practice/middleware"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
)

const devJWTSecret = "psych-practice-dev-secret"

func main() {
	cfg := config.LoadConfig()
	util.SetupLogger(os.Stdout, cfg.LogLevel, cfg.AppEnv == "development")
	log := util.Logger()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := db.AutoMigrate(endpoint.Models...); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.AppEnv == "production" {
			log.Fatal().Msg("JWTSECRET must be set in production")
		}
		log.Warn().Msg("JWTSECRET is empty; using the development secret")
		secret = devJWTSecret
	}
	util.SetJWTSecret(secret)

	if _, err := config.ConnectRedis(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running without account cache and rate limiting")
	}
	util.SetRequestLogDB(db)

	if cfg.SeedFile != "" {
		seed, err := endpoint.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load seed file")
		}
		res, err := endpoint.Seed(db, seed)
		if err != nil {
			log.Fatal().Err(err).Msg("seed database")
		}
		log.Info().Int("users", res.Users).Int("services", res.Services).Int("blogPosts", res.BlogPosts).Msg("seeded")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("create upload dir")
	}

	router := endpoint.NewRouter(db, endpoint.RouterOptions{
		UploadDir:      cfg.UploadDir,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginRateLimit: middleware.RateLimitConfig{},
	})

	address := fmt.Sprintf(":%d", cfg.AppPort)
	log.Info().Str("addr", address).Str("app", cfg.AppName).Msg("listening")
	if err := router.Run(address); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
}
