package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civic-report-service/config"
	"civic-report-service/database"
	"civic-report-service/handlers"
	"civic-report-service/metrics"
	"civic-report-service/middleware"
	"civic-report-service/ml"
	"civic-report-service/rabbitmq"
	"civic-report-service/services"
	"civic-report-service/storage"
	"civic-report-service/utils"
	ws "civic-report-service/websocket"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not configured")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database connection and schema
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.InitializeSchema(db); err != nil {
		log.Fatal("Failed to initialize database schema:", err)
	}

	// Services
	store := database.NewReportStore(db)
	auth := database.NewAdminAuthService(db, cfg.JWTSecret)

	if cfg.AdminPassword != "" {
		if err := auth.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal("Failed to seed default admin:", err)
		}
	}

	classifier := ml.NewClient(cfg.MLBaseURL, cfg.MLAPIKey, cfg.MLTimeout)
	if !classifier.Configured() {
		log.Printf("ML classifier not configured, submissions get the default classification")
	}

	// Optional RabbitMQ publisher
	var publisher *rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, "report.created")
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, continuing without publisher: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Optional object storage provisioning. The creation pipeline does not
	// upload; the bucket is prepared for out-of-band archival.
	if cfg.S3Bucket != "" && cfg.S3AccessKey != "" {
		uploader, err := storage.NewUploader(cfg)
		if err != nil {
			log.Printf("Warning: object storage misconfigured: %v", err)
		} else if err := uploader.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: failed to provision bucket %s: %v", cfg.S3Bucket, err)
		} else {
			log.Printf("Object storage ready: bucket %s", cfg.S3Bucket)
		}
	}

	// Live feed hub
	hub := ws.NewHub()
	go hub.Run()

	// Metrics
	metrics.Register()

	reportService := services.NewReportService(store, classifier, publisher, hub)
	h := handlers.NewHandlers(reportService, store, auth, hub, !cfg.IsProduction())

	router := setupRouter(h, auth, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Civic report service listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setupRouter(h *handlers.Handlers, auth *database.AdminAuthService, cfg *config.Config) *gin.Engine {
	debug := !cfg.IsProduction()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "Internal Server Error"
		if debug {
			message = "panic recovered"
		}
		utils.Error(c, http.StatusInternalServerError, message, "", debug)
	}))

	router.SetTrustedProxies(cfg.TrustedProxies)
	router.MaxMultipartMemory = handlers.MaxUploadBytes

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.NoRoute(func(c *gin.Context) {
		utils.Error(c, http.StatusNotFound, "Route not found", "", debug)
	})

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	reports := router.Group("/api/reports")
	{
		reports.POST("", middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow, debug), h.CreateReport)
		reports.GET("", h.ListPublicReports)
		reports.GET("/:id", h.GetPublicReport)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.POST("/login", h.Login)
	// Websocket dials carry the token as a query parameter, so the feed
	// endpoint authenticates inside its handler.
	admin.GET("/reports/listen", h.ListenReports)

	protected := admin.Group("")
	protected.Use(middleware.AuthMiddleware(auth, debug))
	{
		protected.GET("/reports", h.ListAdminReports)
		protected.PATCH("/reports/:id/status", h.UpdateReportStatus)
	}

	return router
}
