package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/photolab/photolab-api/config"
	"github.com/photolab/photolab-api/controllers"
	"github.com/photolab/photolab-api/middleware"
	"github.com/photolab/photolab-api/models"
	"github.com/photolab/photolab-api/services"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Service{}, &models.Order{}, &models.OrderFile{}); err != nil {
		sugar.Fatalw("failed to migrate database", "error", err)
	}
	sugar.Infow("database migration completed")

	if err := seedDatabase(db); err != nil {
		sugar.Fatalw("failed to seed database", "error", err)
	}

	if _, err := services.InitFileStorage(cfg); err != nil {
		sugar.Fatalw("failed to initialize file storage", "error", err)
	}
	if cfg.UsesS3() {
		sugar.Infow("attachments stored in S3", "bucket", cfg.AWSS3Bucket)
	} else {
		sugar.Infow("attachments stored on local disk", "dir", cfg.UploadDir)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(logger)

	sugar.Infow("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}
}

// setupRouter assembles the middleware stack and the API v1 routes.
func setupRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	router.MaxMultipartMemory = config.MaxUploadBytes

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		// Attachment downloads are addressed by their generated storage name
		v1.GET("/uploads/:filename", controllers.DownloadAttachment)

		authed := v1.Group("", middleware.RequireAuth())
		{
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			authed.GET("/services", controllers.ListServices)
			authed.POST("/services", controllers.CreateService)
			authed.PUT("/services/:id", controllers.UpdateService)

			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/search", controllers.SearchOrders)
			authed.GET("/orders/export", controllers.ExportOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.POST("/orders/:id/status", controllers.UpdateOrderStatus)

			authed.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Photo Lab API is running",
	})
}
