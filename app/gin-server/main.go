package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gradlane/gradlane/config"
	"github.com/gradlane/gradlane/internal/api/handlers"
	"github.com/gradlane/gradlane/internal/api/middleware"
	"github.com/gradlane/gradlane/internal/api/routes"
	"github.com/gradlane/gradlane/internal/cache"
	"github.com/gradlane/gradlane/internal/logger"
	"github.com/gradlane/gradlane/internal/matching"
	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/providers/llm"
	pgrepo "github.com/gradlane/gradlane/internal/repositories/postgres"
	"github.com/gradlane/gradlane/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	if err := config.PostgresDB.AutoMigrate(
		&models.User{},
		&models.UserPreferences{},
		&models.Job{},
		&models.JobMatch{},
	); err != nil {
		log.WithError(err).Fatal("migration error")
	}

	// Init Redis; an in-process cache keeps matching functional without it.
	var rankCache cache.Cache
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-memory cache")
		rankCache = cache.NewMemoryCache(0)
	} else {
		log.Info("Redis connected")
		rankCache = cache.NewRedisCache(config.RedisClient)
	}

	// Init the reasoning provider. Without credentials every run takes the
	// rule-based path.
	var provider llm.Provider
	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		p, err := llm.NewVertexGemini(
			context.Background(),
			projectID,
			os.Getenv("GCP_LOCATION"),
			os.Getenv("GEMINI_MODEL"),
		)
		if err != nil {
			log.WithError(err).Fatal("Vertex AI init error")
		}
		defer p.Close()
		provider = p
	} else {
		log.Warn("GCP_PROJECT_ID not set, AI ranking disabled")
	}

	// Repositories
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	prefsRepo := pgrepo.NewPreferencesRepo(config.PostgresDB)
	jobRepo := pgrepo.NewJobRepo(config.PostgresDB)
	matchRepo := pgrepo.NewMatchRepo(config.PostgresDB)

	// Matching core
	tables := matching.DefaultTables()
	scorer := matching.NewFallbackScorer(tables)
	ranker := matching.NewRanker(provider, rankCache, log)
	free := matching.NewFreeStrategy(ranker, scorer, tables, log)
	premium := matching.NewPremiumStrategy(ranker, scorer, tables, log)

	// Services
	userSvc := services.NewUserService(userRepo, prefsRepo)
	matchSvc := services.NewMatchService(userRepo, prefsRepo, jobRepo, matchRepo, free, premium, log)

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:        handlers.NewAuthHandler(userSvc, matchSvc),
		Matching:    handlers.NewMatchingHandler(userSvc, matchSvc),
		Preferences: handlers.NewPreferencesHandler(userSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
