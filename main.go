package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mitushi-dot/StudySphere/config"
	"github.com/mitushi-dot/StudySphere/handlers"
	"github.com/mitushi-dot/StudySphere/middleware"
	"github.com/mitushi-dot/StudySphere/routes"
	"github.com/mitushi-dot/StudySphere/session"
	"github.com/mitushi-dot/StudySphere/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.MaxMultipartMemory = 100 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	middleware.ApplyMiddleware(router)

	mw := middleware.New(sessions)
	h := handlers.NewHandler(store, sessions, cfg.UploadDir)
	routes.SetupRoutes(router, h, mw)

	router.Static("/uploads", cfg.UploadDir)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
