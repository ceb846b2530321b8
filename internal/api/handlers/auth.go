package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/auth"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/models"
)

// PlayerStore is the account storage the auth handlers need
type PlayerStore interface {
	CreatePlayer(email, displayName, password string) (*models.Player, error)
	Authenticate(email, password string) (*models.Player, error)
	GetPlayer(id int) (*models.Player, error)
}

type credentials struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// issueSession signs a token for the player and writes the login response
func issueSession(c *gin.Context, cfg *config.Config, status int, p *models.Player) {
	ttl := cfg.SessionTimeout()
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, exp, err := auth.IssueToken(cfg.JWTSecret, ttl, p.ID, p.Email, p.DisplayName)
	if err != nil {
		log.Printf("[AUTH] Failed to sign token for player %d: %v", p.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{
		"token":      token,
		"expires_at": exp.Format(time.RFC3339),
		"player":     gin.H{"id": p.ID, "email": p.Email, "display_name": p.DisplayName},
	})
}

// Signup registers an account and logs it in
func Signup(store PlayerStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		p, err := store.CreatePlayer(req.Email, req.DisplayName, req.Password)
		switch {
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("[AUTH] Signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		issueSession(c, cfg, http.StatusCreated, p)
	}
}

// Login exchanges credentials for a token
func Login(store PlayerStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		p, err := store.Authenticate(req.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("[AUTH] Login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		log.Printf("[AUTH] Player %d logged in", p.ID)
		issueSession(c, cfg, http.StatusOK, p)
	}
}

// GetMe returns the authenticated player's profile and live run, if any
func GetMe(store PlayerStore, mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, ok := playerID(c)
		if !ok {
			return
		}

		p, err := store.GetPlayer(pid)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] GetMe failed for player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		profile := gin.H{
			"id":           p.ID,
			"email":        p.Email,
			"display_name": p.DisplayName,
			"holes_played": p.HolesPlayed,
			"total_score":  p.TotalScore,
			"created_at":   p.CreatedAt,
		}
		if run, err := mgr.GetRunForPlayer(pid); err == nil {
			profile["run_token"] = run.Token
		}
		c.JSON(http.StatusOK, profile)
	}
}
