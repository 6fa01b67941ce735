package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"marketplace-portal/internal/config"
	"marketplace-portal/internal/database"
	"marketplace-portal/internal/handlers"
	"marketplace-portal/internal/ratelimit"
	"marketplace-portal/internal/scheduler"
	"marketplace-portal/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	db           *database.DB
	gormDB       *database.GormDB
	searchClient *search.SearchClient
	appConfig    *config.Config
	rateLimiter  *ratelimit.Limiter
	appScheduler *scheduler.Scheduler
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/portal_config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "postgres" {
		log.Println("Using PostgreSQL (legacy listing store)")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err = database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "portal_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "portal_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "portal_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Println("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "portal_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "portal_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "portal_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer gormDB.Close()

		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	// Initialize Meilisearch using config
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "")
	}
	if meilisearchHost != "" {
		meilisearchKey := appConfig.Search.Meilisearch.APIKey
		if meilisearchKey == "" {
			meilisearchKey = getEnv("MEILISEARCH_KEY", "masterKey123")
		}

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Meilisearch not configured, search endpoint disabled")
	}

	// Initialize rate limiter for the ingest route
	rateLimiter = ratelimit.NewLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	// Initialize and start the cleanup scheduler (MySQL only)
	if gormDB != nil {
		appScheduler = scheduler.NewScheduler(gormDB.DB(), appConfig)
		if err := appScheduler.Start(); err != nil {
			log.Printf("Warning: Failed to start scheduler: %v", err)
		}
		defer appScheduler.Stop()
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	listingHandler := handlers.NewListingHandler(gormDB, db, searchClient)

	// Routes
	r.GET("/health", healthCheck)

	api := r.Group("/api")
	{
		api.GET("/listings", listingHandler.List)
		api.GET("/listings/filter-options", listingHandler.FilterOptions)
		api.GET("/listings/search", listingHandler.Search)
		api.GET("/listings/:idx", listingHandler.Get)
		api.POST("/listings", rateLimitMiddleware(), listingHandler.Create)
		api.PUT("/listings/:idx", listingHandler.Update)
		api.PUT("/listings/:idx/watchlist", listingHandler.Watchlist)
		api.DELETE("/listings/:idx", listingHandler.Delete)

		api.GET("/ratelimit/stats", getRateLimitStats)
	}

	// Entities beyond the listing store require the GORM path
	if gormDB != nil {
		scannerHandler := handlers.NewScannerHandler(gormDB)
		locationHandler := handlers.NewLocationHandler(gormDB)
		keywordHandler := handlers.NewKeywordHandler(gormDB)

		api.GET("/scanners", scannerHandler.List)
		api.GET("/scanners/:id", scannerHandler.Get)
		api.POST("/scanners", scannerHandler.Create)
		api.PUT("/scanners/:id", scannerHandler.Update)
		api.DELETE("/scanners/:id", scannerHandler.Delete)

		api.GET("/mappings", scannerHandler.ListMappings)
		api.GET("/mappings/:id", scannerHandler.GetMapping)
		api.PUT("/mappings/:id", scannerHandler.UpdateMapping)

		api.GET("/locations", locationHandler.List)
		api.GET("/locations/:id", locationHandler.Get)
		api.POST("/locations", locationHandler.Create)
		api.PUT("/locations/:id", locationHandler.Update)
		api.DELETE("/locations/:id", locationHandler.Delete)

		api.GET("/keywords", keywordHandler.List)
		api.GET("/keywords/by-scanner", keywordHandler.ByScanner)
		api.POST("/keywords/bulk-update", keywordHandler.BulkUpdate)
		api.POST("/keywords", keywordHandler.Create)
		api.DELETE("/keywords/:id", keywordHandler.Delete)

		adminHandler := handlers.NewAdminHandler(gormDB.DB())

		admin := r.Group("/api/admin")
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/activity", adminHandler.GetRecentActivity)
			admin.GET("/category-stats", adminHandler.GetCategoryStats)
			admin.GET("/price-distribution", adminHandler.GetPriceDistribution)

			admin.POST("/cleanup/run", adminHandler.RunCleanup)
			admin.GET("/cleanup/logs", adminHandler.GetDeleteLogs)
		}

		log.Println("Admin API routes registered at /api/admin/*")
	}

	port := appConfig.Server.Port
	if port == "" {
		port = getEnv("PORT", "8084")
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

// rateLimitMiddleware returns a Gin middleware that enforces rate limiting
// on the listing ingest route
func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimiter.Allow() {
			stats := rateLimiter.GetStats()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   stats,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	stats := rateLimiter.GetStats()
	c.JSON(http.StatusOK, stats)
}
