package main

import (
	"os"
	"time"

	"github.com/HeshalD/CeylonMart-sub001/config"
	"github.com/HeshalD/CeylonMart-sub001/internal/clients"
	"github.com/HeshalD/CeylonMart-sub001/internal/handlers"
	"github.com/HeshalD/CeylonMart-sub001/internal/middleware"
	"github.com/HeshalD/CeylonMart-sub001/internal/repository"
	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/HeshalD/CeylonMart-sub001/pkg/db"
	"github.com/HeshalD/CeylonMart-sub001/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting CeylonMart backend...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.New(registry)

	var notifier clients.NotifierClient
	if cfg.NotifierURL != "" {
		notifier = clients.NewNotifierHTTPClient(cfg.NotifierURL, 5*time.Second, logger)
		logger.Infof("Notifier client initialized for target: %s", cfg.NotifierURL)
	} else {
		notifier = clients.NewNoopNotifier(logger)
	}

	// --- Dependency Injection ---
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	paymentRepo := repository.NewPostgresPaymentRepository(database, logger)
	inventoryRepo := repository.NewPostgresInventoryRepository(database, logger)
	deliveryRepo := repository.NewPostgresDeliveryRepository(database, logger)
	driverRepo := repository.NewPostgresDriverRepository(database, logger)
	logger.Info("Repositories initialized.")

	cartUseCase := usecase.NewCartUseCase(orderRepo, logger)
	inventoryUseCase := usecase.NewInventoryUseCase(inventoryRepo, cfg.AllowNegativeStock, pipelineMetrics, logger)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, orderRepo, inventoryUseCase, notifier, pipelineMetrics, logger)
	deliveryUseCase := usecase.NewDeliveryUseCase(deliveryRepo, driverRepo, orderRepo, pipelineMetrics, logger)
	driverUseCase := usecase.NewDriverUseCase(driverRepo, logger)
	logger.Info("Use cases initialized.")

	orderHandler := handlers.NewOrderHandler(cartUseCase, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryUseCase, logger)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryUseCase, logger)
	driverHandler := handlers.NewDriverHandler(driverUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	orderHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	deliveryHandler.RegisterRoutes(router)
	driverHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
