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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Dosada05/arena/brackets"
	"github.com/Dosada05/arena/config"
	"github.com/Dosada05/arena/db"
	"github.com/Dosada05/arena/glicko"
	"github.com/Dosada05/arena/handlers"
	"github.com/Dosada05/arena/logging"
	"github.com/Dosada05/arena/metrics"
	"github.com/Dosada05/arena/repositories"
	api "github.com/Dosada05/arena/routes"
	"github.com/Dosada05/arena/services"
	"github.com/Dosada05/arena/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	logger, err := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", logging.Err(err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Рейтинговый движок
	defaultRating, err := cfg.Rating.Default()
	if err != nil {
		return err
	}
	engine, err := glicko.NewEngine(glicko.Config{Period: cfg.Rating.Period(), Default: defaultRating})
	if err != nil {
		return fmt.Errorf("invalid rating configuration: %w", err)
	}

	// Архив итоговых таблиц (Cloudflare R2)
	archiver := storage.NewNopArchiver()
	if cfg.Archive.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.Archive.R2AccountID,
			AccessKeyID:     cfg.Archive.R2AccessKeyID,
			SecretAccessKey: cfg.Archive.R2SecretAccessKey,
			BucketName:      cfg.Archive.R2BucketName,
			PublicBaseURL:   cfg.Archive.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewStandingsArchiver(uploader)
		logger.Info("standings archive enabled", slog.String("bucket", cfg.Archive.R2BucketName))
	}

	// Метрики Prometheus
	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		appMetrics = metrics.New(reg)
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	// Инициализация репозиториев
	txRunner := repositories.NewTxRunner(dbConn, logger)
	ratingRepo := repositories.NewPostgresRatingRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	// Инициализация сервисов
	ratingService := services.NewRatingService(txRunner, ratingRepo, engine, wsHub, appMetrics, logger)
	completion := services.CompletionDeps{
		CompetitionRepo: competitionRepo,
		StandingRepo:    standingRepo,
		Archiver:        archiver,
		Hub:             wsHub,
		Metrics:         appMetrics,
		Logger:          logger,
	}
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, ratingService, completion)
	leagueService := services.NewLeagueService(txRunner, leagueRepo, ratingService, completion)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Rating:     handlers.NewRatingHandler(ratingService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		League:     handlers.NewLeagueHandler(leagueService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        appMetrics,
	})

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
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", logging.Err(closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
