package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/swiftship/parcel-service/internal/clients"
	"github.com/swiftship/parcel-service/internal/config"
	"github.com/swiftship/parcel-service/internal/database"
	"github.com/swiftship/parcel-service/internal/handlers"
	"github.com/swiftship/parcel-service/internal/services"
	"github.com/swiftship/parcel-service/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis is optional; without it the read path just skips caching.
	var cache *services.ParcelCache
	if cfg.RedisURL != "" {
		cache, err = services.NewParcelCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis initialization warning: %v", err)
			cache = nil
		}
	}

	hub := services.NewHub()
	go hub.Run()

	svc := services.NewParcelService(
		store.NewGormParcelStore(db),
		clients.NewDriverClient(cfg.DriverServiceURL, cfg.RequestTimeout),
		clients.NewNotificationClient(cfg.NotificationServiceURL, cfg.RequestTimeout),
		clients.NewPaymentClient(cfg.PaymentServiceURL, cfg.RequestTimeout),
		hub,
		cache,
	)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	handlers.RegisterRoutes(r, svc, hub)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
