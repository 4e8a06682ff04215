package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/database"
	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/utils"
)

func init() {
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Hub event untuk dashboard realtime
	hub := events.NewHub()
	hub.StartKeepalive(30 * time.Second)
	defer hub.Stop()

	// Bersihkan token blacklist yang sudah kedaluwarsa
	go utils.CleanupBlacklist(10 * time.Minute)

	r := router.SetupRouter(db, hub, cfg)
	r.SetTrustedProxies([]string{"127.0.0.1"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
