package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minigolfstudio/backend/internal/admin"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/golf"
	"github.com/minigolfstudio/backend/internal/models"
)

// TuningStore persists physics overrides and the admin audit trail.
type TuningStore interface {
	GetAllRuntimeConfig() ([]models.RuntimeConfig, error)
	UpdateRuntimeConfigValue(key, value, adminUsername string) error
	LogAdminAction(adminUsername, ip, route, action string, details map[string]interface{}, success bool)
	GetAdminAuditLogs(limit, offset int) ([]models.AdminAudit, error)
}

// ApplyTuning loads every stored override onto the manager. Runs started
// afterwards use the new parameters; live runs keep theirs.
func ApplyTuning(store TuningStore, mgr *game.RunManager) error {
	configs, err := store.GetAllRuntimeConfig()
	if err != nil {
		return err
	}
	params, n := admin.ApplyRuntimeConfig(configs, golf.DefaultParams())
	mgr.SetParams(params)
	log.Printf("[CONFIG] Applied %d physics overrides from database", n)
	return nil
}

// GetAdminRuntimeConfig returns the stored overrides next to the parameters in effect
func GetAdminRuntimeConfig(store TuningStore, mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := store.GetAllRuntimeConfig()
		if err != nil {
			if errors.Is(err, admin.ErrNoDatabase) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Runtime config unavailable"})
				return
			}
			log.Printf("[ADMIN] Failed to fetch runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"configs": configs, "physics": mgr.Params()})
	}
}

// UpdateAdminRuntimeConfig updates a single runtime config value and re-applies the overrides
func UpdateAdminRuntimeConfig(store TuningStore, mgr *game.RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		key := c.Param("key")
		route := "/api/v1/admin/config/" + key

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}

		details := map[string]interface{}{"key": key, "value": req.Value}
		if err := store.UpdateRuntimeConfigValue(key, req.Value, adminUsername); err != nil {
			store.LogAdminAction(adminUsername, c.ClientIP(), route, "update_config", details, false)
			if errors.Is(err, admin.ErrNoDatabase) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Runtime config unavailable"})
				return
			}
			log.Printf("[ADMIN] Failed to update config %s: %v", key, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := ApplyTuning(store, mgr); err != nil {
			log.Printf("[ADMIN] Warning: failed to apply runtime config: %v", err)
		}

		store.LogAdminAction(adminUsername, c.ClientIP(), route, "update_config", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true, "physics": mgr.Params()})
	}
}

// GetAdminAuditLogs returns paginated audit log entries
func GetAdminAuditLogs(store TuningStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryLimit(c, 25, 200)
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if offset < 0 {
			offset = 0
		}

		logs, err := store.GetAdminAuditLogs(limit, offset)
		if err != nil {
			if errors.Is(err, admin.ErrNoDatabase) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audit log unavailable"})
				return
			}
			log.Printf("[ADMIN] Failed to fetch audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
