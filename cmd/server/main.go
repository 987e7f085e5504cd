package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/config"
	"github.com/tripwise/flight-planner/internal/database"
	"github.com/tripwise/flight-planner/internal/handlers"
	"github.com/tripwise/flight-planner/internal/middleware"
	"github.com/tripwise/flight-planner/internal/services"
	"github.com/tripwise/flight-planner/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting flight planner API")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	airportRepo := database.NewAirportRepository(db)
	routeRepo := database.NewRouteRepository(db)
	tripRepo := database.NewTripRepository(db)
	legRepo := database.NewFlightLegRepository(db)
	airlineRepo := database.NewAirlineRepository(db)
	auditRepo := database.NewAuditLogRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	itinerarySvc := services.NewItineraryService(tripRepo, legRepo, routeRepo, airportRepo, logger)
	backfillSvc := services.NewScheduleBackfillService(routeRepo, airportRepo, cfg.Schedule, logger)
	indexSvc := services.NewAirportIndexService(airportRepo, logger)
	auditSvc := services.NewAuditService(auditRepo, logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	count, err := indexSvc.Rebuild(startupCtx)
	cancelStartup()
	if err != nil {
		// lookups fall back to the database until the next refresh
		logger.WithError(err).Warn("Failed to build airport index")
	} else {
		logger.WithField("airports", count).Info("✓ Airport index built")
	}

	cronService := services.NewCronService(backfillSvc, indexSvc, cfg.Schedule, logger).
		WithAuditCleanup(auditSvc, cfg.Audit)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("✓ Cron service started")

	api := &handlers.Handlers{
		Trips:    handlers.NewTripHandler(itinerarySvc, auditSvc, logger),
		Airports: handlers.NewAirportHandler(indexSvc, logger),
		Routes:   handlers.NewRouteHandler(routeRepo, airlineRepo, logger),
		Admin:    handlers.NewAdminHandler(backfillSvc, cronService, auditSvc, logger),
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db, indexSvc))

	api.Register(router.Group("/api/v1"),
		middleware.AuthMiddleware(jwtService, logger),
		middleware.RequireRole("admin"))

	// Backfills can outlast the default write timeout
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB, index *services.AirportIndexService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":           "healthy",
			"database":         "healthy",
			"indexed_airports": index.Size(),
			"version":          version,
			"timestamp":        time.Now().Unix(),
		})
	}
}
