package models

import (
	"database/sql"
	"time"
)

// Player is a registered golfer
type Player struct {
	ID           int          `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	DisplayName  string       `db:"display_name" json:"display_name"`
	PasswordHash string       `db:"password_hash" json:"-"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	HolesPlayed  int          `db:"holes_played" json:"holes_played"`
	TotalScore   int          `db:"total_score" json:"total_score"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	LastActive   sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// HoleResult is one completed hole of a run
type HoleResult struct {
	ID          int       `db:"id" json:"id"`
	PlayerID    int       `db:"player_id" json:"player_id"`
	RunToken    string    `db:"run_token" json:"run_token"`
	LevelID     int       `db:"level_id" json:"level_id"`
	Strokes     int       `db:"strokes" json:"strokes"`
	Par         int       `db:"par" json:"par"`
	Score       int       `db:"score" json:"score"`
	DurationMs  int64     `db:"duration_ms" json:"duration_ms"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// LevelBest is a player's best result on one level
type LevelBest struct {
	LevelID     int `db:"level_id" json:"level_id"`
	BestStrokes int `db:"best_strokes" json:"best_strokes"`
	Attempts    int `db:"attempts" json:"attempts"`
}

// RuntimeConfig is one operator override of a physics parameter
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description string         `db:"description" json:"description"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"-"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit records one admin request
type AdminAudit struct {
	ID            int       `db:"id" json:"id"`
	AdminUsername string    `db:"admin_username" json:"admin_username"`
	IP            string    `db:"ip" json:"ip"`
	Route         string    `db:"route" json:"route"`
	Action        string    `db:"action" json:"action"`
	Details       string    `db:"details" json:"details"`
	Success       bool      `db:"success" json:"success"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
