package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// playerID reads the authenticated player set by the auth middleware.
func playerID(c *gin.Context) (int, bool) {
	pid := c.GetInt("player_id")
	if pid <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return pid, true
}

// intParam parses a positive integer path parameter, answering 400 otherwise.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}

// queryLimit reads ?limit= capped to ceiling, falling back to def.
func queryLimit(c *gin.Context, def, ceiling int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
