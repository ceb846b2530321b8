package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/minigolfstudio/backend/internal/auth"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = "demo@minigolf.studio"
		log.Printf("Using default demo email: %s", email)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "putt-putt-demo"
		log.Printf("WARNING: Using default demo password. Set SEED_PASSWORD outside development!")
	}

	displayName := os.Getenv("SEED_DISPLAY_NAME")
	if displayName == "" {
		displayName = "Demo Golfer"
	}

	player, err := auth.NewStore(db).UpsertPlayer(email, displayName, password)
	if err != nil {
		log.Fatalf("Failed to seed player: %v", err)
	}

	log.Printf("Demo player ready (id %d)", player.ID)
	log.Printf("  Email: %s", player.Email)
	log.Printf("  Display Name: %s", player.DisplayName)
	log.Println("\nLog in with POST /api/v1/auth/login")
}
