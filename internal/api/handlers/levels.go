package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/golf"
)

// ListLevels returns the course catalogue; this is the level-select menu
func ListLevels(c *gin.Context) {
	levels := golf.Levels()
	menu := make([]gin.H, 0, len(levels))
	for _, l := range levels {
		menu = append(menu, gin.H{
			"id":        l.ID,
			"name":      l.Name,
			"par":       l.Par,
			"obstacles": len(l.Obstacles),
			"has_flow":  l.Flow != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"levels": menu})
}

// GetLevel returns the full layout of one course for the renderer
func GetLevel(c *gin.Context) {
	id, ok := intParam(c, "levelId")
	if !ok {
		return
	}
	course, err := golf.LevelByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "level not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}
