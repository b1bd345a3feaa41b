// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"giventake_backend/internal/category"
	"giventake_backend/internal/collection"
	"giventake_backend/internal/config"
	"giventake_backend/internal/firebase"
	"giventake_backend/internal/jobs"
	"giventake_backend/internal/listing"
	"giventake_backend/internal/middleware"
	"giventake_backend/internal/platform/database"
	"giventake_backend/internal/shared"
	"giventake_backend/internal/stats"
	"giventake_backend/internal/suggest"
	"giventake_backend/internal/user"
	"giventake_backend/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler       *user.Handler
	categoryHandler   *category.Handler
	listingHandler    *listing.Handler
	collectionHandler *collection.Handler
	wishlistHandler   *wishlist.Handler
	suggestHandler    *suggest.Handler
	statsHandler      *stats.Handler

	// Jobs
	imageSweepJob *jobs.ImageSweepJob

	// Middleware instances
	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	categoryHandler *category.Handler,
	listingHandler *listing.Handler,
	collectionHandler *collection.Handler,
	wishlistHandler *wishlist.Handler,
	suggestHandler *suggest.Handler,
	statsHandler *stats.Handler,
	imageSweepJob *jobs.ImageSweepJob,
	db *gorm.DB,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
	categoryService category.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Schema and seed data before any request is served.
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := categoryService.Seed(seedCtx); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "GiveNTake API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)
	categoryHandler.RegisterRoutes(v1)
	listingHandler.RegisterRoutes(v1, authMW)
	collectionHandler.RegisterRoutes(v1, authMW)
	wishlistHandler.RegisterRoutes(v1, authMW)
	suggestHandler.RegisterRoutes(v1, authMW)
	statsHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:        httpServer,
		router:            router,
		cfg:               cfg,
		logger:            logger,
		userHandler:       userHandler,
		categoryHandler:   categoryHandler,
		listingHandler:    listingHandler,
		collectionHandler: collectionHandler,
		wishlistHandler:   wishlistHandler,
		suggestHandler:    suggestHandler,
		statsHandler:      statsHandler,
		imageSweepJob:     imageSweepJob,
		authMW:            authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.imageSweepJob != nil {
		if err := s.imageSweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start image sweep job", zap.Error(err))
		}
	} else {
		s.logger.Info("Image sweep job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.imageSweepJob != nil {
		s.imageSweepJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
