package main

import (
	"log"
	"time"

	"github.com/credline/backoffice-api/config"
	"github.com/credline/backoffice-api/handlers"
	"github.com/credline/backoffice-api/middleware"
	"github.com/credline/backoffice-api/routes"
	"github.com/credline/backoffice-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ledger := services.NewLedgerService()
	log.Printf("✅ Ledger backend: %s", ledger.BaseURL)

	wsHandler := handlers.NewWSHandler()

	store := services.NewSessionStore(ledger)
	store.SetNotify(wsHandler.BroadcastState)

	router := gin.Default()

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range cfg.AllowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupLoanRoutes(v1, ledger)
		routes.SetupBatchRoutes(v1, store)
		routes.SetupAllocationRoutes(v1)
		routes.SetupRefinanceRoutes(v1, ledger)
	}

	router.GET("/ws/sessions/:id", wsHandler.HandleWS)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
