package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/config"
)

var devOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://127.0.0.1:5173",
}

// CORSMiddleware lets the browser renderer call the API from its own origin.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	origins := allowedOrigins(cfg)
	log.Printf("[CORS] Environment: %s, allowed origins: %v", cfg.Environment, origins)

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization", "Accept",
			"Cache-Control", "X-Requested-With", "X-Run-Token", "X-Admin-Token", "X-Admin-User",
		},
		ExposeHeaders: []string{"Content-Length", "X-Run-ID", "X-Active-Runs"},
		MaxAge:        12 * time.Hour,
	})
}

func allowedOrigins(cfg *config.Config) []string {
	var origins []string
	if isLocalEnv(cfg) {
		origins = append(origins, devOrigins...)
	} else {
		origins = append(origins, "https://minigolf.studio", "https://play.minigolf.studio")
	}
	if cfg.FrontendURL != "" && !contains(origins, cfg.FrontendURL) {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}

func isLocalEnv(cfg *config.Config) bool {
	return cfg.Environment == "development" || cfg.Environment == "test"
}

// originAllowed accepts any localhost port in development so a renderer
// served from another dev server can still open a socket.
func originAllowed(cfg *config.Config, origin string) bool {
	if isLocalEnv(cfg) && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
		return true
	}
	return contains(allowedOrigins(cfg), origin)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// WebSocketCORSCheck validates WebSocket upgrade origins
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") ||
			!strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "WebSocket origin required"})
			return
		}
		if !originAllowed(cfg, origin) {
			log.Printf("[CORS] Rejected WebSocket origin %s", origin)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "WebSocket origin not allowed"})
			return
		}

		c.Next()
	}
}
