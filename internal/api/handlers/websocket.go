package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/ws"
)

// HandleRunWebSocket streams frames for a run and accepts pointer input
func HandleRunWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
