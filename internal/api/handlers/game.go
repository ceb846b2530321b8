package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/golf"
)

// StartRun begins a run on a level for the authenticated player.
// Any run the player already has is abandoned.
func StartRun(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, ok := playerID(c)
		if !ok {
			return
		}
		var req struct {
			LevelID int `json:"level_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.LevelID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level_id required"})
			return
		}

		run, err := mgr.StartRun(pid, c.GetString("display_name"), req.LevelID)
		if errors.Is(err, golf.ErrUnknownLevel) {
			c.JSON(http.StatusNotFound, gin.H{"error": "level not found"})
			return
		}
		if err != nil {
			log.Printf("[RUN] StartRun failed for player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
			return
		}

		c.Header("X-Run-ID", run.ID)
		c.JSON(http.StatusCreated, gin.H{
			"token":  run.Token,
			"ws_url": "/api/v1/runs/" + run.Token + "/ws",
			"run":    run.View(),
		})
	}
}

// ownedRun resolves :token to a live run of the authenticated player.
func ownedRun(c *gin.Context, mgr *game.RunManager) (*game.Run, bool) {
	pid, ok := playerID(c)
	if !ok {
		return nil, false
	}
	run, err := mgr.GetRun(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	if run.PlayerID != pid {
		c.JSON(http.StatusForbidden, gin.H{"error": "run belongs to another player"})
		return nil, false
	}
	return run, true
}

// GetRunState returns a run's latest state. Finished runs are served from
// their Redis snapshot for an hour.
func GetRunState(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, ok := playerID(c)
		if !ok {
			return
		}
		token := c.Param("token")

		if run, err := mgr.GetRun(token); err == nil {
			if run.PlayerID != pid {
				c.JSON(http.StatusForbidden, gin.H{"error": "run belongs to another player"})
				return
			}
			c.JSON(http.StatusOK, run.View())
			return
		}

		view, err := mgr.LoadRunSnapshot(c.Request.Context(), token)
		if errors.Is(err, game.ErrRunNotFound) || errors.Is(err, game.ErrNoRedis) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		if err != nil {
			log.Printf("[REDIS] LoadRunSnapshot %s failed: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if view.PlayerID != pid {
			c.JSON(http.StatusForbidden, gin.H{"error": "run belongs to another player"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// SendRunInput queues one input for a run; the resulting frame arrives on the WebSocket
func SendRunInput(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := ownedRun(c, mgr)
		if !ok {
			return
		}
		var in game.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
			return
		}
		switch err := run.Send(in); {
		case errors.Is(err, game.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, game.ErrRunClosed):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		}
	}
}

// EndRun abandons a run
func EndRun(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := ownedRun(c, mgr)
		if !ok {
			return
		}
		if err := mgr.EndRun(run.Token, game.StatusAbandoned); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		log.Printf("[RUN] Player %d quit run %s", run.PlayerID, run.Token)
		c.JSON(http.StatusOK, gin.H{"status": game.StatusAbandoned})
	}
}

// GetLeaderboard returns the best stroke counts on a level
func GetLeaderboard(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		levelID, ok := intParam(c, "levelId")
		if !ok {
			return
		}
		if _, err := golf.LevelByID(levelID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "level not found"})
			return
		}
		entries, err := mgr.Leaderboard(c.Request.Context(), levelID, queryLimit(c, 0, 100))
		if errors.Is(err, game.ErrNoRedis) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboards unavailable"})
			return
		}
		if err != nil {
			log.Printf("[REDIS] Leaderboard %d failed: %v", levelID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"level_id": levelID, "entries": entries})
	}
}

// GetMyScores returns the player's recent holes and personal bests
func GetMyScores(mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, ok := playerID(c)
		if !ok {
			return
		}
		recent, bests, err := mgr.PlayerScores(pid, queryLimit(c, 20, 100))
		if errors.Is(err, game.ErrNoDatabase) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "score history unavailable"})
			return
		}
		if err != nil {
			log.Printf("[DB] PlayerScores %d failed: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recent": recent, "bests": bests})
	}
}
