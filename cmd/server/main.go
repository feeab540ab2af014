package main

import (
	"alcyxob/recipe-app/internal/api"
	"alcyxob/recipe-app/internal/config"
	"alcyxob/recipe-app/internal/logging"
	"alcyxob/recipe-app/internal/repository"
	"alcyxob/recipe-app/internal/repository/mongo"
	"alcyxob/recipe-app/internal/repository/relational"
	"alcyxob/recipe-app/internal/service"
	"alcyxob/recipe-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Recipes API
// @version 1.0
// @description Per-user recipe records with presigned image uploads.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "driver", cfg.Database.Driver, "bucket", cfg.S3.BucketName)

	// --- Record Store ---
	recipeRepo, closeStore, err := openRecipeStore(cfg.Database)
	if err != nil {
		logger.Error("could not open recipe store", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		logger.Error("failed to initialize S3 storage", "err", err)
		os.Exit(1)
	}

	// --- Initialize Services ---
	recipeService := service.NewRecipeService(recipeRepo, fileStorage, cfg.S3.Expiry(), logger)

	verifier, err := api.NewTokenVerifier(cfg.Auth)
	if err != nil {
		logger.Error("invalid auth configuration", "err", err)
		os.Exit(1)
	}

	var limiter *api.RateLimiter
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		limiter = api.NewRateLimiter(api.NewRedisCounter(redisClient), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		logger.Info("rate limiting enabled", "redis", cfg.Redis.Addr, "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))

	api.SetupRoutes(router, api.Dependencies{
		RecipeService:  recipeService,
		Verifier:       verifier,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen and serve", "err", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	logger.Info("server exiting")
}

// openRecipeStore returns the configured repository and a func that releases it.
func openRecipeStore(cfg config.DatabaseConfig) (repository.RecipeRepository, func(), error) {
	switch cfg.Driver {
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Name)
		repo := mongo.NewMongoRecipeRepository(db, cfg.Table)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		table := cfg.Table
		if table == "" {
			table = mongo.DefaultRecipeCollection
		}
		mongo.EnsureRecipeIndexes(ctx, db.Collection(table))
		cancel()

		return repo, func() {
			if err := mongo.DisconnectDB(client); err != nil {
				slog.Error("failed to disconnect mongo", "err", err)
			}
		}, nil

	case relational.DriverPostgres, relational.DriverSQLite:
		db, err := relational.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := relational.Migrate(db, cfg.Table); err != nil {
			_ = relational.Close(db)
			return nil, nil, err
		}
		return relational.NewGormRecipeRepository(db, cfg.Table), func() {
			if err := relational.Close(db); err != nil {
				slog.Error("failed to close database", "err", err)
			}
		}, nil
	}
	return nil, nil, errors.New("unknown database driver " + cfg.Driver)
}
