package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/config"
	"github.com/piresc/ordertrack/internal/pkg/database"
	"github.com/piresc/ordertrack/internal/pkg/health"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/middleware"
	natspkg "github.com/piresc/ordertrack/internal/pkg/nats"
	nrpkg "github.com/piresc/ordertrack/internal/pkg/newrelic"
	"github.com/piresc/ordertrack/internal/pkg/server"
	wspkg "github.com/piresc/ordertrack/internal/pkg/websocket"
	"github.com/piresc/ordertrack/services/tracking/gateway"
	"github.com/piresc/ordertrack/services/tracking/handler"
	httpHandler "github.com/piresc/ordertrack/services/tracking/handler/http"
	natsHandler "github.com/piresc/ordertrack/services/tracking/handler/nats"
	wsHandler "github.com/piresc/ordertrack/services/tracking/handler/websocket"
	"github.com/piresc/ordertrack/services/tracking/registry"
	"github.com/piresc/ordertrack/services/tracking/repository"
	"github.com/piresc/ordertrack/services/tracking/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	appName := "tracking-service"
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/tracking.env"
	}
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register("logger", func(context.Context) error {
		return zapLogger.Close()
	})
	if nrApp != nil {
		shutdownManager.Register("newrelic", func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	// Order directory
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	shutdownManager.Register("postgres", func(context.Context) error {
		return postgresClient.Close()
	})

	// Order cache
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	shutdownManager.Register("redis", func(context.Context) error {
		return redisClient.Close()
	})

	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	shutdownManager.Register("nats", func(context.Context) error {
		natsClient.Close()
		return nil
	})

	// Initialize repository, gateway and use case
	orderRepo := repository.NewOrderRepo(configs, postgresClient.GetDB(), redisClient)
	trackingGW := gateway.NewTrackingGW(natsClient, configs.JWT)
	reg := registry.New()
	prometheus.MustRegister(reg)
	trackingUC := usecase.NewTrackingUC(reg, orderRepo, trackingGW, configs)

	// Handlers
	positionHandler := httpHandler.NewPositionHandler(trackingUC)
	trackingWS := wsHandler.NewTrackingHandler(trackingUC, wspkg.NewManager(configs.Tracking))
	orderNATS := natsHandler.NewOrderHandler(trackingUC, natsClient)

	Handler := handler.NewHandler(positionHandler, trackingWS, orderNATS, configs)

	if err := Handler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", zap.Error(err))
	}

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(nrpkg.EchoMiddleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthService := health.NewService()
	healthService.AddChecker("postgres", health.PostgresChecker(postgresClient))
	healthService.AddChecker("redis", health.RedisChecker(redisClient))
	healthService.AddChecker("nats", health.NATSChecker(natsClient))
	health.RegisterHealthEndpoints(e, appName, healthService)

	Handler.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port, shutdownManager)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error",
			zap.String("app", appName),
			zap.Error(err),
		)
	}
}
