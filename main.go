package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shubham-bhadra-10/Legalyze/config"
	"github.com/shubham-bhadra-10/Legalyze/handler"
	"github.com/shubham-bhadra-10/Legalyze/middleware"
	"github.com/shubham-bhadra-10/Legalyze/pkg/logger"
	"github.com/shubham-bhadra-10/Legalyze/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx := context.Background()

	// Cache backend: Redis in production, in-memory when unconfigured
	var kv service.KV
	if cfg.Redis.Addr != "" {
		redisKV, err := service.NewRedisKV(&cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisKV.Close()
		kv = redisKV
	} else {
		slog.Warn("no redis address configured, using in-memory cache")
		kv = service.NewMemoryKV()
	}

	// Durable store: Firestore in production, in-memory when unconfigured
	var store service.Store
	if cfg.Firestore.ProjectID != "" {
		firestoreStore, err := service.NewFirestoreStore(ctx, &cfg.Firestore)
		if err != nil {
			slog.Error("failed to initialize Firestore store", "error", err)
			os.Exit(1)
		}
		defer firestoreStore.Close()
		store = firestoreStore
	} else {
		slog.Warn("no firestore project configured, using in-memory store")
		store = service.NewMemoryStore()
	}

	// AI backend
	gen, err := service.NewVertexGenerator(ctx, &cfg.AI)
	if err != nil {
		slog.Error("failed to initialize AI backend", "error", err)
		os.Exit(1)
	}
	defer gen.Close()

	// Pipeline services
	blobs := service.NewBlobStore(kv, time.Duration(cfg.Limits.BlobTTLSeconds)*time.Second)
	cache := service.NewResultCache(kv, time.Duration(cfg.Limits.CacheTTLSeconds)*time.Second)
	analysisSvc := service.NewAnalysisService(
		blobs,
		service.NewPDFExtractor(),
		service.NewClassifier(gen, cfg.Limits.ClassifyPrefixChars),
		service.NewAnalyzer(gen),
		store,
		cache,
		cfg.AI.Model,
		time.Duration(cfg.Limits.RequestTimeoutSeconds)*time.Second,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	contractHandler := handler.NewContractHandler(analysisSvc, cfg.Limits.MaxUploadBytes)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/contracts/detect-type", contractHandler.DetectType)
		protected.POST("/contracts/analyze", contractHandler.Analyze)
		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.POST("/contracts/:id/feedback", contractHandler.Feedback)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
