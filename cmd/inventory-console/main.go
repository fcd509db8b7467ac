package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/inventory-console/internal/catalog"
	"github.com/iyhunko/inventory-console/internal/config"
	httpAPI "github.com/iyhunko/inventory-console/internal/http"
	"github.com/iyhunko/inventory-console/internal/http/controller"
	"github.com/iyhunko/inventory-console/internal/http/middleware"
	"github.com/iyhunko/inventory-console/internal/logger"
	"github.com/iyhunko/inventory-console/internal/metrics"
	"github.com/iyhunko/inventory-console/internal/repository"
	"github.com/iyhunko/inventory-console/internal/repository/memory"
	reporedis "github.com/iyhunko/inventory-console/internal/repository/redis"
	reposql "github.com/iyhunko/inventory-console/internal/repository/sql"
	"github.com/iyhunko/inventory-console/internal/service"
	sqspkg "github.com/iyhunko/inventory-console/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prefs, closePrefs, err := openPreferences(ctx, conf)
	handleErr("opening preference storage", err)
	defer closePrefs()

	// Change events are optional
	var publisher service.EventPublisher
	if conf.AWS.SQSQueueURL != "" {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		handleErr("creating SQS client", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
	}

	catalogClient := catalog.NewClient(conf.Catalog.BaseURL, conf.Catalog.Timeout)
	inventory := service.NewInventoryService(catalogClient, publisher, conf.Catalog.SyncMinLoading)
	sessions := service.NewSessions()
	limiter := middleware.NewRateLimiter(conf.RateLimit.PerSecond, conf.RateLimit.Burst)

	sweeper := service.NewSessionSweeper(conf.Sessions.IdleTTL, conf.Sessions.SweepInterval, sessions, limiter)
	go sweeper.Start(ctx)

	router, err := httpAPI.InitRouter(conf, gin.New(), limiter, controller.New(), controller.NewConsoleController(inventory, sessions, prefs))
	handleErr("initializing router", err)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("Inventory console starting", slog.String("port", conf.HTTPServer.Port), slog.String("catalog", conf.Catalog.BaseURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")

	sweeper.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Metrics server shutdown failed", slog.Any("err", err))
	}
}

// openPreferences builds the theme store selected by PREFS_BACKEND.
func openPreferences(ctx context.Context, conf *config.Config) (repository.PreferenceRepository, func(), error) {
	switch conf.Prefs.Backend {
	case config.PrefsBackendPostgres:
		db, err := reposql.StartDB(ctx, conf.Database)
		if err != nil {
			return nil, nil, err
		}
		return reposql.NewPreferenceRepository(db), func() { _ = db.Close() }, nil
	case config.PrefsBackendRedis:
		rdb, err := reporedis.Connect(ctx, conf.Redis)
		if err != nil {
			return nil, nil, err
		}
		return reporedis.NewPreferenceRepository(rdb), func() { _ = rdb.Close() }, nil
	default:
		return memory.NewPreferenceRepository(), func() {}, nil
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
