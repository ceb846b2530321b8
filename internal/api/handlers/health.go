package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := 0
		if mgr != nil {
			active = mgr.ActiveRunCount()
		}
		c.Header("X-Active-Runs", strconv.Itoa(active))
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "minigolf-api",
			"version":     version,
			"uptime":      time.Since(startTime).String(),
			"active_runs": active,
		})
	}
}
