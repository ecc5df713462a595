package main

import (
	"log"
	"net/http"
	"os"

	"hav-jeang-api/config"
	"hav-jeang-api/geo"
	"hav-jeang-api/handlers"
	"hav-jeang-api/matching"
	"hav-jeang-api/pricing"
	"hav-jeang-api/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()
	config.InitDB(cfg.DBPath)

	// Pick the distance provider: OpenRouteService when a key is configured,
	// otherwise the offline haversine fallback.
	var distancer geo.RouteDistancer = geo.HaversineProvider{}
	if cfg.ORSAPIKey != "" {
		distancer = geo.NewORSClient(cfg.ORSBaseURL, cfg.ORSAPIKey, cfg.ProviderTimeout)
		log.Println("Using OpenRouteService for trip distances")
	} else {
		log.Println("ORS_API_KEY not set — using haversine distances")
	}

	handlers.Init(cfg,
		pricing.NewCalculator(distancer, cfg.PerKmRate),
		matching.NewMatcher(config.DB, distancer),
	)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Hav-Jeang Roadside Service API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🔧 Welcome to the Hav-Jeang Roadside Service API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "mechanic"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
