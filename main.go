package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lvalverde/commerce-admin-api/config"
	"github.com/lvalverde/commerce-admin-api/controllers"
	"github.com/lvalverde/commerce-admin-api/middleware"
	"github.com/lvalverde/commerce-admin-api/services"
)

func main() {
	logrus.Info("Starting commerce admin gateway...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Build the backend client and the dashboard workflows on top of it
	client := services.NewHTTPAPIClient(cfg)
	services.SetAPIClient(client)
	controllers.InitWorkflows(client)

	// Report export is optional; it needs an S3 bucket
	if cfg.ReportExportEnabled() {
		s3Service, err := services.InitS3Service()
		if err != nil {
			logrus.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitReportService(s3Service)
		logrus.Infof("Order report export enabled (bucket %s)", cfg.AWSS3Bucket)
	}

	// Populate the collections up front; a failure here is not fatal, the
	// workflows stay stale until the next successful refresh
	warmUpCollections()

	router := SetupRouter(cfg)

	logrus.Infof("Gateway is running on http://localhost:%s (backend %s)", cfg.Port, cfg.BackendBaseURL)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

// SetupRouter assembles the Gin engine: middleware, the health endpoint, and
// the dashboard surface for customers, products, and orders.
func SetupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() || cfg.IsTest() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")

	// Health check endpoint (unauthenticated)
	v1.GET("/health", healthCheck)

	// Everything else is the admin surface
	admin := v1.Group("")
	admin.Use(middleware.EnsureValidToken(cfg))
	{
		admin.GET("/customers", controllers.ListCustomers)
		admin.GET("/customers/:id", controllers.GetCustomer)
		admin.GET("/customers/:id/orders", controllers.ListCustomerOrders)
		admin.POST("/customers", controllers.CreateCustomer)
		admin.PUT("/customers/:id", controllers.UpdateCustomer)
		admin.POST("/customers/:id/delete-request", controllers.RequestDeleteCustomer)
		admin.POST("/customers/:id/delete-confirm", controllers.ConfirmDeleteCustomer)
		admin.POST("/customers/:id/delete-cancel", controllers.CancelDeleteCustomer)

		admin.GET("/products", controllers.ListProducts)
		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.POST("/products/:id/delete-request", controllers.RequestDeleteProduct)
		admin.POST("/products/:id/delete-confirm", controllers.ConfirmDeleteProduct)
		admin.POST("/products/:id/delete-cancel", controllers.CancelDeleteProduct)

		admin.GET("/orders", controllers.ListOrders)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.POST("/orders/draft", controllers.OpenOrderDraft)
		admin.DELETE("/orders/draft", controllers.CloseOrderDraft)
		admin.PUT("/orders/draft/customer", controllers.SetDraftCustomer)
		admin.POST("/orders/draft/rows", controllers.AddDraftRow)
		admin.PUT("/orders/draft/rows/:key", controllers.UpdateDraftRow)
		admin.DELETE("/orders/draft/rows/:key", controllers.RemoveDraftRow)
		admin.POST("/orders/draft/submit", controllers.SubmitOrderDraft)
		admin.POST("/orders/report", middleware.RequireScope(cfg, "export:reports"), controllers.ExportOrderReport)
		admin.POST("/orders/:id/delete-request", controllers.RequestDeleteOrder)
		admin.POST("/orders/:id/delete-confirm", controllers.ConfirmDeleteOrder)
		admin.POST("/orders/:id/delete-cancel", controllers.CancelDeleteOrder)
	}

	return router
}

// warmUpCollections performs the initial fetch for each list workflow
func warmUpCollections() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := controllers.CustomerWorkflow().Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("initial customer fetch failed")
	}
	if err := controllers.ProductWorkflow().Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("initial product fetch failed")
	}
	if err := controllers.OrderWorkflow().Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("initial order fetch failed")
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Commerce admin gateway is running",
	})
}
