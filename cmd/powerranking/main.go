package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/auth"
	"github.com/powerranking-app/powerranking/internal/router"
	"github.com/powerranking-app/powerranking/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if db.DemoMode {
		if err := db.SeedDemoUser(); err != nil {
			log.Fatalf("Failed to seed demo user: %v", err)
		}
	}

	if err := auth.InitJWTSecret(db.DemoMode); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	scheduler.Initialize()

	// Stop the sweeper on SIGINT/SIGTERM before the process exits
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		scheduler.Shutdown()
		os.Exit(0)
	}()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
