package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/api/handlers"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, store handlers.PlayerStore, tuning handlers.TuningStore, mgr *game.RunManager, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	requireAuth := middleware.AuthMiddleware(cfg)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(mgr))
		v1.GET("/config", handlers.GetConfig(cfg, mgr))

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", handlers.Signup(store, cfg))
			authGroup.POST("/login", handlers.Login(store, cfg))
		}

		// Level select menu
		v1.GET("/levels", handlers.ListLevels)
		v1.GET("/levels/:levelId", handlers.GetLevel)
		v1.GET("/leaderboard/:levelId", handlers.GetLeaderboard(mgr))

		me := v1.Group("/me", requireAuth)
		{
			me.GET("", handlers.GetMe(store, mgr))
			me.GET("/scores", handlers.GetMyScores(mgr))
		}

		runs := v1.Group("/runs", requireAuth)
		{
			runs.POST("", handlers.StartRun(mgr))
			runs.GET("/:token", handlers.GetRunState(mgr))
			runs.DELETE("/:token", handlers.EndRun(mgr))
			runs.POST("/:token/input", handlers.SendRunInput(mgr))
			runs.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleRunWebSocket())
		}

		// Physics tuning
		adminGroup := v1.Group("/admin", middleware.AdminAuth(cfg))
		{
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(tuning, mgr))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(tuning, mgr))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(tuning))
		}
	}
}
