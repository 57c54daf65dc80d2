package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/api"
	"github.com/hichigg/betbrain/internal/api/middleware"
	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/internal/providers"
	"github.com/hichigg/betbrain/internal/services"
	"github.com/hichigg/betbrain/pkg/config"
	"github.com/hichigg/betbrain/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is an optional shared cache tier; everything works without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unavailable, running with in-process cache only: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	gameCache := cache.New(redisClient, logger)

	breakerThreshold := uint32(cfg.CircuitBreakerThreshold)
	espnClient := providers.NewESPNClient(gameCache, breakerThreshold, logger)
	oddsClient := providers.NewOddsAPIClient(cfg.OddsAPIKey, gameCache, breakerThreshold, logger)

	var playerStats services.PlayerStatsProvider
	if cfg.BallDontLieAPIKey != "" {
		playerStats = providers.NewBallDontLieClient(cfg.BallDontLieAPIKey, gameCache, breakerThreshold, logger)
	}

	aggregator := services.NewAggregator(gameCache, logger, espnClient, oddsClient, playerStats)
	pickStore := models.NewPickStore(db.DB)
	resolver := services.NewResolver(pickStore, aggregator, logger)

	if cfg.EnableBackgroundSweep {
		sweeper := services.NewSweeper(resolver, logger, cfg.ResolverInterval)
		if err := sweeper.Start(); err != nil {
			logrus.Errorf("Failed to start resolver sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, aggregator, resolver, pickStore, gameCache, oddsClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
