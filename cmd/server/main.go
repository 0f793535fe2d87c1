package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/grandpavilion/booking-backend/internal/config"
	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/handlers"
	"github.com/grandpavilion/booking-backend/internal/middleware"
	"github.com/grandpavilion/booking-backend/internal/services"
	"github.com/grandpavilion/booking-backend/pkg/jwt"
	"github.com/grandpavilion/booking-backend/pkg/mailer"
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

	logger.Info("Starting Grand Pavilion Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	mailClient := mailer.New(cfg.SMTP, logger)

	// Initialize repositories
	userRepository := database.NewUserRepository(db.DB)
	bookingRepository := database.NewBookingRepository(db.DB)
	facilityRepository := database.NewFacilityRepository(db.DB)
	packageRepository := database.NewPackageRepository(db.DB)
	foodRepository := database.NewFoodRepository(db.DB)
	reviewRepository := database.NewReviewRepository(db.DB)
	restaurantInfoRepository := database.NewRestaurantInfoRepository(db.DB)
	reportRepository := database.NewReportRepository(db.DB)

	authService := services.NewAuthService(
		userRepository,
		jwtService,
		int64(cfg.JWT.AccessTokenExpiry.Seconds()),
		cfg.Security.BcryptCost,
		logger,
	)
	bookingService := services.NewBookingService(
		bookingRepository,
		facilityRepository,
		packageRepository,
		foodRepository,
		mailClient,
		cfg.Booking,
		logger,
	)
	reportService := services.NewReportService(reportRepository)
	reminderService := services.NewReminderService(
		bookingRepository,
		mailClient,
		cfg.Booking,
		logger,
	)

	// Start booking reminder scheduler
	if err := reminderService.Start(); err != nil {
		logger.Fatalf("Failed to start reminder service: %v", err)
	}
	logger.Info("Reminder service started")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userRepository)
	bookingHandler := handlers.NewBookingHandler(bookingService, userRepository)
	facilityHandler := handlers.NewFacilityHandler(facilityRepository, reviewRepository)
	foodHandler := handlers.NewFoodHandler(foodRepository)
	packageHandler := handlers.NewPackageHandler(packageRepository)
	reviewHandler := handlers.NewReviewHandler(reviewRepository, bookingRepository)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantInfoRepository)
	adminHandler := handlers.NewAdminHandler(reportService)
	logger.Info("Handlers initialized")

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			// Protected profile routes
			me := auth.Group("")
			me.Use(middleware.AuthMiddleware(jwtService))
			{
				me.GET("/me", authHandler.GetProfile)
				me.PUT("/me", authHandler.UpdateProfile)
				me.GET("/login-history", authHandler.GetLoginHistory)
			}
		}

		// Public catalog routes
		facilities := v1.Group("/facilities")
		{
			facilities.GET("", facilityHandler.ListFacilities)
			facilities.GET("/floor-plan", facilityHandler.GetFloorPlan)
			facilities.GET("/:id", facilityHandler.GetFacility)
			facilities.GET("/:id/slots", facilityHandler.GetBookedSlots)
			facilities.GET("/:id/reviews", reviewHandler.ListFacilityReviews)
		}

		menu := v1.Group("/menu")
		{
			menu.GET("/categories", foodHandler.ListCategories)
			menu.GET("/items", foodHandler.ListItems)
			menu.GET("/items/:id", foodHandler.GetItem)
		}

		packages := v1.Group("/packages")
		{
			packages.GET("", packageHandler.ListPackages)
			packages.GET("/:id", packageHandler.GetPackage)
		}

		v1.GET("/restaurant", restaurantHandler.GetInfo)

		// Booking routes (require authentication)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("/check-availability", bookingHandler.CheckAvailability)
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/my", bookingHandler.GetMyBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
			bookings.GET("/:id/invoice", bookingHandler.GetInvoice)
		}

		// Review routes (require authentication)
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthMiddleware(jwtService))
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.POST("/:id/like", reviewHandler.LikeReview)
		}

		// Staff routes
		staff := v1.Group("/staff")
		staff.Use(middleware.AuthMiddleware(jwtService))
		staff.Use(middleware.RequireRole("staff", "admin"))
		{
			staff.GET("/bookings", bookingHandler.ListBookings)
			staff.GET("/bookings/daily", bookingHandler.GetDaily)
			staff.GET("/bookings/number/:number", bookingHandler.GetByNumber)
			staff.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)
			staff.PUT("/facilities/:id/maintenance", facilityHandler.SetMaintenance)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/facilities", facilityHandler.CreateFacility)
			admin.PUT("/facilities/:id", facilityHandler.UpdateFacility)
			admin.DELETE("/facilities/:id", facilityHandler.DeleteFacility)

			admin.POST("/menu/categories", foodHandler.CreateCategory)
			admin.DELETE("/menu/categories/:id", foodHandler.DeleteCategory)
			admin.POST("/menu/items", foodHandler.CreateItem)
			admin.PUT("/menu/items/:id", foodHandler.UpdateItem)
			admin.DELETE("/menu/items/:id", foodHandler.DeleteItem)

			admin.POST("/packages", packageHandler.CreatePackage)
			admin.PUT("/packages/:id", packageHandler.UpdatePackage)
			admin.DELETE("/packages/:id", packageHandler.DeletePackage)

			admin.PUT("/restaurant", restaurantHandler.SaveInfo)
			admin.GET("/dashboard", adminHandler.GetDashboard)
		}
	}

	// Configure HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
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

	// Stop reminder scheduler
	logger.Info("Stopping reminder service...")
	reminderService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		// Record authorization presence, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		if user, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = user.UserID
			fields["role"] = user.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
