package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sanjayy-s/asl-backend/config"
	"github.com/sanjayy-s/asl-backend/db"
	"github.com/sanjayy-s/asl-backend/handlers"
	"github.com/sanjayy-s/asl-backend/live"
	"github.com/sanjayy-s/asl-backend/repositories"
	"github.com/sanjayy-s/asl-backend/routes"
	"github.com/sanjayy-s/asl-backend/services"
	"github.com/sanjayy-s/asl-backend/storage"
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

	// Logo storage is optional: without R2 credentials uploads return 503
	// but everything else works.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("logo storage initialized")
	} else {
		logger.Warn("R2 credentials not set, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, uploader, hub, logger)
	matchService := services.NewMatchService(tournamentRepo, clockwork.NewRealClock(), hub)

	jwtSecret := []byte(cfg.JWTSecretKey)
	router := routes.SetupRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, jwtSecret),
		User:       handlers.NewUserHandler(userService),
		Team:       handlers.NewTeamHandler(teamService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Match:      handlers.NewMatchHandler(matchService),
		WebSocket:  handlers.NewWebSocketHandler(hub),
	}, jwtSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
