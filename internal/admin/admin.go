package admin

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/minigolfstudio/backend/internal/models"
)

var ErrNoDatabase = errors.New("database not configured")

// Store reads and writes runtime config and the admin audit log
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetAllRuntimeConfig returns all runtime config entries
func (s *Store) GetAllRuntimeConfig() ([]models.RuntimeConfig, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	configs := []models.RuntimeConfig{}
	err := s.db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// UpdateRuntimeConfigValue validates and stores a single value. Unknown keys are inserted.
func (s *Store) UpdateRuntimeConfigValue(key, value, adminUsername string) error {
	if err := ValidateValue(key, value); err != nil {
		return err
	}
	if s.db == nil {
		return ErrNoDatabase
	}
	valueType := "float"
	if key == previewKey {
		valueType = "string"
	}
	_, err := s.db.Exec(`
		INSERT INTO runtime_config (key, value, value_type, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
	`, key, value, valueType, adminUsername)
	return err
}

// LogAdminAction records an admin action in the audit log
func (s *Store) LogAdminAction(adminUsername, ip, route, action string, details map[string]interface{}, success bool) {
	if s.db == nil {
		return
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = s.db.Exec(`
		INSERT INTO admin_audit (admin_username, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, adminUsername, ip, route, action, detailsJSON, success)
	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func (s *Store) GetAdminAuditLogs(limit, offset int) ([]models.AdminAudit, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	logs := []models.AdminAudit{}
	err := s.db.Select(&logs, `
		SELECT id, admin_username, ip, route, action, details::text AS details, success, created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return logs, err
}
