package main

import (
	"fmt"
	"log"

	"market-demand-api/analytics"
	"market-demand-api/config"
	"market-demand-api/handlers"
	"market-demand-api/metrics"
	"market-demand-api/middleware"
	"market-demand-api/models"
	"market-demand-api/predict"
	"market-demand-api/services"
	"market-demand-api/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := db.AutoMigrate(&models.MarketWeek{}, &models.Prediction{}, &models.User{}); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// Redis cache; degraded pass-through when unreachable
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, serving without cache: %v", err)
	}

	// Classifier artifact; the weekly refresh swaps it and calls reload
	holder := predict.NewHolder(cfg.Model.ArtifactPath)

	counter := metrics.NewCounter(prometheus.DefaultRegisterer)
	records := store.NewGormStore(db)
	authService := services.NewAuthService(cfg.JWT)

	sim := analytics.NewSimulator(records, holder, counter, records)
	agg := analytics.NewAggregator(records, holder, counter, sim, records, cfg.Model.DefaultAccuracy)

	timeout := cfg.Server.RequestTimeout
	authHandler := handlers.NewAuthHandler(db, authService)
	dashboardHandler := handlers.NewDashboardHandler(agg, cache, timeout)
	predictionHandler := handlers.NewPredictionHandler(agg, cache, timeout)
	simulationHandler := handlers.NewSimulationHandler(sim, timeout)
	historyHandler := handlers.NewHistoryHandler(agg, cache, timeout)
	modelHandler := handlers.NewModelHandler(holder)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "Market Demand API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/profile", middleware.RequireAuth(authService), authHandler.Profile)
	}

	predictions := router.Group("/api/predictions")
	{
		predictions.GET("/current-week", predictionHandler.GetCurrentWeek)
		predictions.GET("/dashboard-cards", dashboardHandler.GetCards)
		predictions.GET("/chart-data", dashboardHandler.GetChartData)
		predictions.GET("/simulate", simulationHandler.Simulate)
		predictions.GET("/status-cards", dashboardHandler.GetStatusCards)
		predictions.GET("/market-insights", dashboardHandler.GetMarketInsights)
		predictions.GET("/business-insights", dashboardHandler.GetBusinessInsights)
	}

	router.GET("/api/market/history", historyHandler.GetHistory)

	model := router.Group("/api/model")
	{
		model.GET("/info", modelHandler.GetInfo)
		model.POST("/reload", middleware.RequireAuth(authService), modelHandler.Reload)
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache, authService))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
