package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/event-companion/cache"
	"github.com/Dosada05/event-companion/config"
	"github.com/Dosada05/event-companion/db"
	"github.com/Dosada05/event-companion/handlers"
	"github.com/Dosada05/event-companion/live"
	"github.com/Dosada05/event-companion/middleware"
	"github.com/Dosada05/event-companion/repositories"
	"github.com/Dosada05/event-companion/routes"
	"github.com/Dosada05/event-companion/services"
	"github.com/Dosada05/event-companion/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Optional league leaderboard cache.
	var leaderboard *cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		leaderboard = cache.NewLeaderboardCache(redisClient)
		logger.Info("redis leaderboard cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	// Optional snapshot backups to Cloudflare R2.
	var uploader storage.FileUploader
	if cfg.BackupsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	managerRepo := repositories.NewPostgresManagerRepository(dbConn)
	snapshotRepo := repositories.NewPostgresSnapshotRepository(dbConn)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := services.NewAuthService(managerRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	playerService := services.NewPlayerService(dbConn, playerRepo, participantRepo, logger)
	eventService := services.NewEventService(dbConn, eventRepo, participantRepo, matchRepo, wsHub, logger, rng)
	roundService := services.NewRoundService(dbConn, eventRepo, participantRepo, matchRepo, wsHub, logger, rng)
	standingsService := services.NewStandingsService(eventRepo, participantRepo, matchRepo)
	leagueService := services.NewLeagueService(leagueRepo, eventRepo, participantRepo, matchRepo, leaderboard, logger)

	var backupService services.BackupService
	if uploader != nil {
		backupService = services.NewBackupService(snapshotRepo, uploader, logger)
		go runBackupScheduler(backupService, cfg.BackupInterval, logger)
	}
	logger.Info("services initialized")

	handlerSet := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Player:    handlers.NewPlayerHandler(playerService),
		Event:     handlers.NewEventHandler(eventService, roundService, standingsService),
		League:    handlers.NewLeagueHandler(leagueService),
		Backup:    handlers.NewBackupHandler(backupService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, logger),
	}
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.InitRoutes(handlerSet, authenticator)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

func runBackupScheduler(backupService services.BackupService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("snapshot backup scheduler started", slog.Duration("interval", interval))

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if _, err := backupService.Run(ctx); err != nil {
			logger.Error("scheduled snapshot failed", slog.Any("error", err))
		}
		cancel()
	}
}
