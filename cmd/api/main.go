package main

import (
	"log"
	"os"

	"society-portal-api/config"
	"society-portal-api/middleware"
	"society-portal-api/models"
	"society-portal-api/routes"
	"society-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.WorkflowStatus{},
		&models.Society{},
		&models.EventRequest{},
		&models.StatusHistory{},
		&models.IdempotencyKey{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	// Mirror the compiled-in status catalog into the database
	if err := services.SeedStatusCatalog(config.DB); err != nil {
		log.Fatal("Failed to seed status catalog:", err)
	}

	// Background delivery of transition notifications
	worker := services.StartNotificationWorker(config.DB)
	defer worker.Stop()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware())

	routes.SetupRoutes(router)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if ginMode == "release" {
		log.Printf("Running in production mode")
	} else {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
