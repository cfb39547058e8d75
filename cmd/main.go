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

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/brackets"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/config"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/db"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/handlers"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/repositories"
	api "github.com/easoftwareGit/bowl-tmnts-2-sub002/routes"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/services"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/storage"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/utils"
	"github.com/go-chi/chi/v5"
)

// @title Bowling Brackets API
// @version 1.0
// @description Bracket entries, fill grid and locked seeding for bowling tournaments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// `main hash-password <password>` печатает bcrypt-хеш для заведения директоров
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := utils.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("max_brackets_per_entry", cfg.MaxBracketsPerEntry),
		slog.Bool("r2_export", cfg.R2Enabled()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Выгрузка листов посева в Cloudflare R2 (опционально)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(rootCtx, storage.CloudflareR2UploaderConfig{
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
	} else {
		logger.Info("R2 settings incomplete, seed sheet export disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(rootCtx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	brktRepo := repositories.NewPostgresBrktRepository(dbConn)
	entryRepo := repositories.NewPostgresBrktEntryRepository(dbConn)
	oneBrktRepo := repositories.NewPostgresOneBrktRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	bracketService := services.NewBracketService(
		dbConn,
		brktRepo,
		entryRepo,
		oneBrktRepo,
		uploader,
		wsHub,
		logger,
		services.BracketServiceConfig{MaxBracketsPerEntry: cfg.MaxBracketsPerEntry},
	)
	entryService := services.NewEntryService(brktRepo, entryRepo, bracketService, logger, cfg.MaxBracketsPerEntry)

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	entryHandler := handlers.NewEntryHandler(entryService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: cfg.JWTSecretKey, AllowedOrigins: cfg.CORSAllowedOrigins},
		authHandler,
		bracketHandler,
		entryHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stopRoot()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		// Сначала закрываем websocket-клиентов, иначе Shutdown их не дождется
		stopRoot()
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
