package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/config"
	"github.com/shenikar/dispatch_coordination_system/internal/dispatch"
	v1 "github.com/shenikar/dispatch_coordination_system/internal/handler/http/v1"
	"github.com/shenikar/dispatch_coordination_system/internal/position"
	"github.com/shenikar/dispatch_coordination_system/internal/repository"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
	"github.com/shenikar/dispatch_coordination_system/internal/service"
	"github.com/shenikar/dispatch_coordination_system/internal/webhook"
	"github.com/shenikar/dispatch_coordination_system/pkg/logger"
	"github.com/shenikar/dispatch_coordination_system/pkg/postgres"
	redisclient "github.com/shenikar/dispatch_coordination_system/pkg/redis"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/shenikar/dispatch_coordination_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cfg, logger.New(cfg.LogLevel, cfg.LogFormat))
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on startup")
}

// newRouteEngine выбирает решатель маршрутов: OSRM, если задан адрес, иначе оценка по прямой
func newRouteEngine(cfg *config.Config, log *logrus.Logger) routing.Engine {
	if cfg.RouterURL != "" {
		log.WithField("router_url", cfg.RouterURL).Info("Using OSRM route engine")
		return routing.NewOSRMEngine(cfg.RouterURL, &http.Client{})
	}
	log.WithField("speed_kmh", cfg.FallbackSpeedKmh).Warn("ROUTER_URL not set, using straight-line route estimates")
	return routing.NewStraightLineEngine(cfg.FallbackSpeedKmh)
}

func serve(cfg *config.Config, log *logrus.Logger) error {
	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if !skipMigrations {
		m, err := newMigrator(cfg)
		if err != nil {
			return err
		}
		err = runMigrations(m, log)
		m.Close()
		if err != nil {
			return err
		}
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func(c *redis.Client) {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis client")
		}
	}(redisClient)
	log.Info("Successfully connected to Redis")

	// Оповещение экстренных служб
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	// Workflow статусов
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.IncidentCacheTTL)
	incidentService := service.NewIncidentService(incidentRepo, log, webhookPublisher)

	// Консоли офицеров
	positions := position.NewRedisSource(redisClient, log)
	hub := dispatch.NewHub(ctx, incidentService, positions, newRouteEngine(cfg, log), log, dispatch.Options{
		SolveTimeout:  cfg.RouteSolveTimeout,
		RefreshOnMove: cfg.RouteRefreshOnMove,
		FocusZoom:     cfg.MapFocusZoom,
		IdleTTL:       cfg.ConsoleIdleTTL,
	})
	defer hub.Close()

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, hub, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Received shutdown signal, shutting down server...")
	case err := <-serverErr:
		return fmt.Errorf("error starting HTTP server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Останавливаем воркер до закрытия Redis: прерванное оповещение возвращается в очередь
	cancel()
	select {
	case <-webhookWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Webhook worker did not stop in time")
	}

	log.Info("Server gracefully stopped")
	return nil
}
