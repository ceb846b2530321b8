package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/config"
)

// AdminAuth guards the admin API with the shared ADMIN_TOKEN. The caller
// names itself with X-Admin-User for the audit log.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminToken == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "admin API disabled"})
			return
		}
		token := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.AdminToken)) != 1 {
			log.Printf("[ADMIN] Rejected admin request from %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		user := strings.TrimSpace(c.GetHeader("X-Admin-User"))
		if user == "" {
			user = "admin"
		}
		c.Set("admin_username", user)
		c.Next()
	}
}
