package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/game"
)

// GetConfig returns the values a renderer needs to mirror the server loop
func GetConfig(cfg *config.Config, mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tick_rate_hz":         cfg.TickRateHz,
			"max_frame_delta_ms":   cfg.MaxFrameDeltaMs,
			"run_idle_timeout_sec": cfg.RunIdleTimeoutSecs,
			"leaderboard_size":     cfg.LeaderboardSize,
			"physics":              mgr.Params(),
		})
	}
}
