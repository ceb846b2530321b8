package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minigolfstudio/backend/internal/admin"
	"github.com/minigolfstudio/backend/internal/api"
	"github.com/minigolfstudio/backend/internal/api/handlers"
	"github.com/minigolfstudio/backend/internal/auth"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/database"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/migrations"
	"github.com/minigolfstudio/backend/internal/redis"
	"github.com/minigolfstudio/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Println("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, migrations.DefaultDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	game.InitializeManager(db, rdb, cfg)

	tuning := admin.NewStore(db)
	if err := handlers.ApplyTuning(tuning, game.Manager); err != nil {
		log.Printf("[CONFIG] Using default physics: %v", err)
	}

	// Relay hole and idle events from every instance to this instance's sockets
	ws.SetRedisClient(rdb)
	ws.StartRunEventSubscriber(ctx)

	game.Manager.StartIdleWorker(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, auth.NewStore(db), tuning, game.Manager, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting minigolf server on port %s (tick %d Hz)", port, cfg.TickRateHz)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	game.Manager.Shutdown()
}
