package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/controllers"
	"github.com/tailorrecords/tailor-records-api/middleware"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

func main() {
	log.Println("Starting Tailor Records API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Measurement{},
		&models.MeasurementField{},
		&models.Order{},
		&models.ItemType{},
		&models.Customization{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Change hub behind every live query
	services.InitNotifier()

	// Photo storage: S3 when configured, otherwise the local photo directory
	if cfg.UseS3() {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitPhotoService(s3Service)
		log.Printf("Photo storage: S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		services.InitLocalPhotoService(cfg.PhotoDir)
		log.Printf("Photo storage: local directory %s", cfg.PhotoDir)
	}

	// WhatsApp sharing degrades to wa.me links when no API key is set
	if provider := services.InitWhatsAppProvider(cfg.WhatsAppAPIKey, cfg.WhatsAppTemplate); provider != nil {
		log.Printf("WhatsApp sharing via %s", provider.GetName())
	} else {
		log.Println("WhatsApp sharing in link-fallback mode")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with all middleware and routes
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.RequestLogger())
	router.Use(cors.Default())

	// Locally stored customer photos are served straight from disk
	if !cfg.UseS3() {
		router.Static("/api/v1/photos", cfg.PhotoDir)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.POST("/customers", controllers.CreateCustomer)
		v1.GET("/customers", controllers.ListCustomers)
		v1.GET("/customers/check-phone", controllers.CheckCustomerPhone)
		v1.GET("/customers/:id", controllers.GetCustomer)
		v1.PUT("/customers/:id", controllers.UpdateCustomer)
		v1.DELETE("/customers/:id", controllers.DeleteCustomer)
		v1.POST("/customers/:id/photo", controllers.UploadCustomerPhoto)
		v1.POST("/customers/:id/measurements", controllers.CreateMeasurement)
		v1.GET("/customers/:id/measurements", controllers.ListMeasurements)
		v1.GET("/customers/:id/orders", controllers.ListCustomerOrders)

		v1.GET("/measurements/latest", controllers.GetLatestMeasurement)
		v1.GET("/measurements/:id", controllers.GetMeasurement)
		v1.PUT("/measurements/:id", controllers.UpdateMeasurement)
		v1.DELETE("/measurements/:id", controllers.DeleteMeasurement)

		v1.GET("/measurement-fields", controllers.ListMeasurementFields)
		v1.POST("/measurement-fields", controllers.CreateMeasurementField)
		v1.PUT("/measurement-fields", controllers.UpdateMeasurementFields)
		v1.DELETE("/measurement-fields/:id", controllers.DeleteMeasurementField)

		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.PUT("/orders/:id", controllers.UpdateOrder)
		v1.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		v1.DELETE("/orders/:id", controllers.DeleteOrder)
		v1.GET("/orders/:id/card", controllers.GetOrderCard)
		v1.POST("/orders/:id/share", controllers.ShareOrderCard)

		v1.POST("/qr/scan", controllers.ScanQR)

		v1.GET("/backup/export", controllers.ExportBackup)
		v1.POST("/backup/import", controllers.ImportBackup)

		v1.GET("/catalog/item-types", controllers.ListItemTypes)
		v1.POST("/catalog/item-types", controllers.AddItemType)
		v1.GET("/catalog/customizations", controllers.ListCustomizations)
		v1.POST("/catalog/customizations", controllers.AddCustomization)
		v1.DELETE("/catalog/customizations", controllers.RemoveCustomization)

		v1.GET("/stream", controllers.Stream)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tailor Records API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
