package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/minigolfstudio/backend/internal/models"
)

const playerColumns = `id, email, display_name, password_hash, created_at, holes_played, total_score, is_active, last_active`

// Store persists player accounts.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreatePlayer registers a new account. The email must be unused.
func (s *Store) CreatePlayer(email, displayName, password string) (*models.Player, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("db is nil")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var p models.Player
	err = s.db.Get(&p, `INSERT INTO players (email, display_name, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, NOW(), true)
		RETURNING `+playerColumns, email, CleanDisplayName(displayName, email), hash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	log.Printf("[AUTH] Player %d registered (%s)", p.ID, p.Email)
	return &p, nil
}

// UpsertPlayer creates the account or resets its name and password.
func (s *Store) UpsertPlayer(email, displayName, password string) (*models.Player, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("db is nil")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	var p models.Player
	err = s.db.Get(&p, `INSERT INTO players (email, display_name, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, NOW(), true)
		ON CONFLICT (email) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = EXCLUDED.password_hash,
			is_active = true
		RETURNING `+playerColumns, email, CleanDisplayName(displayName, email), hash)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}
	return &p, nil
}

// Authenticate checks credentials and touches last_active.
func (s *Store) Authenticate(email, password string) (*models.Player, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("db is nil")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	var p models.Player
	if err := s.db.Get(&p, `SELECT `+playerColumns+` FROM players WHERE email=$1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !p.IsActive || !CheckPassword(p.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if _, err := s.db.Exec(`UPDATE players SET last_active=NOW() WHERE id=$1`, p.ID); err != nil {
		log.Printf("[AUTH] Failed to update last_active for player %d: %v", p.ID, err)
	}
	return &p, nil
}

// GetPlayer loads a player by ID. sql.ErrNoRows is returned unchanged.
func (s *Store) GetPlayer(id int) (*models.Player, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("db is nil")
	}
	var p models.Player
	if err := s.db.Get(&p, `SELECT `+playerColumns+` FROM players WHERE id=$1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// DisplayNames resolves player IDs to names in one query.
func (s *Store) DisplayNames(ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if s == nil || s.db == nil {
		return nil, errors.New("db is nil")
	}
	ids64 := make([]int64, len(ids))
	for i, id := range ids {
		ids64[i] = int64(id)
	}
	var rows []struct {
		ID          int    `db:"id"`
		DisplayName string `db:"display_name"`
	}
	if err := s.db.Select(&rows, `SELECT id, display_name FROM players WHERE id = ANY($1)`, pq.Array(ids64)); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.DisplayName
	}
	return out, nil
}
