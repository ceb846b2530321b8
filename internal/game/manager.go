package game

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/golf"
	"github.com/redis/go-redis/v9"
)

// RunManager owns every live run on this server
type RunManager struct {
	runs     map[string]*Run // keyed by run token
	byPlayer map[int]string  // player ID -> run token
	rdb      *redis.Client   // snapshots, idle tracking, leaderboards, events
	db       *sqlx.DB        // hole results
	config   *config.Config
	params   golf.Params
	mu       sync.RWMutex
}

var (
	// Global run manager instance
	Manager *RunManager
)

// InitializeManager sets up the global run manager
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewRunManager(db, rdb, cfg)
}

// NewRunManager creates a run manager. db and rdb may be nil; persistence is skipped for a missing store.
func NewRunManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *RunManager {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &RunManager{
		runs:     make(map[string]*Run),
		byPlayer: make(map[int]string),
		rdb:      rdb,
		db:       db,
		config:   cfg,
		params:   golf.DefaultParams(),
	}
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateRunID() string {
	return "run_" + generateToken(8)
}

// Params returns the physics parameters every new run uses.
func (m *RunManager) Params() golf.Params {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params
}

// SetParams changes the physics parameters for runs started afterwards.
func (m *RunManager) SetParams(p golf.Params) {
	m.mu.Lock()
	m.params = p
	m.mu.Unlock()
}

// StartRun begins a run on levelID for a player. A player has at most one
// live run; an older one is abandoned.
func (m *RunManager) StartRun(playerID int, displayName string, levelID int) (*Run, error) {
	m.mu.Lock()
	params := m.params
	var previous *Run
	if token, ok := m.byPlayer[playerID]; ok {
		previous = m.runs[token]
		delete(m.runs, token)
		delete(m.byPlayer, playerID)
	}

	r, err := newRun(generateRunID(), generateToken(16), playerID, displayName, levelID, params,
		m.config.TickInterval(), m.config.MaxFrameDelta())
	if err != nil {
		m.mu.Unlock()
		if previous != nil {
			previous.Stop(StatusAbandoned)
		}
		return nil, err
	}
	r.onHoleComplete = m.onHoleComplete
	r.onActivity = m.onActivity
	r.onEnd = m.forget

	m.runs[r.Token] = r
	m.byPlayer[playerID] = r.Token
	m.mu.Unlock()

	if previous != nil {
		log.Printf("[RUN] Player %d started a new run; abandoning %s", playerID, previous.Token)
		previous.Stop(StatusAbandoned)
	}

	r.Start()
	m.onActivity(r)
	m.saveRunSnapshot(r.View())
	log.Printf("[RUN] Run %s started for player %d on level %d", r.Token, playerID, levelID)
	return r, nil
}

// GetRun returns a live run by token
func (m *RunManager) GetRun(token string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[token]
	if !ok {
		return nil, ErrRunNotFound
	}
	return r, nil
}

// GetRunForPlayer returns the player's live run
func (m *RunManager) GetRunForPlayer(playerID int) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.byPlayer[playerID]
	if !ok {
		return nil, ErrRunNotFound
	}
	r, ok := m.runs[token]
	if !ok {
		return nil, ErrRunNotFound
	}
	return r, nil
}

// EndRun stops a run and removes it from the manager
func (m *RunManager) EndRun(token string, status RunStatus) error {
	m.mu.Lock()
	r, ok := m.runs[token]
	if !ok {
		m.mu.Unlock()
		return ErrRunNotFound
	}
	delete(m.runs, token)
	if m.byPlayer[r.PlayerID] == token {
		delete(m.byPlayer, r.PlayerID)
	}
	m.mu.Unlock()

	r.Stop(status)
	return nil
}

// ActiveRunCount returns the number of live runs
func (m *RunManager) ActiveRunCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// Shutdown stops every live run.
func (m *RunManager) Shutdown() {
	m.mu.Lock()
	runs := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, r)
	}
	m.runs = make(map[string]*Run)
	m.byPlayer = make(map[int]string)
	m.mu.Unlock()

	for _, r := range runs {
		r.Stop(StatusAbandoned)
	}
	log.Printf("[RUN] Shutdown stopped %d runs", len(runs))
}

// forget drops a run whose loop has ended on its own.
func (m *RunManager) forget(r *Run) {
	m.mu.Lock()
	if cur, ok := m.runs[r.Token]; ok && cur == r {
		delete(m.runs, r.Token)
	}
	if m.byPlayer[r.PlayerID] == r.Token {
		delete(m.byPlayer, r.PlayerID)
	}
	m.mu.Unlock()

	m.saveRunSnapshot(r.View())
	m.clearIdle(r.Token)
}

func (m *RunManager) onHoleComplete(r *Run, hole HoleScore, total int, played time.Duration) {
	result := holeRecord{
		RunToken:    r.Token,
		PlayerID:    r.PlayerID,
		DisplayName: r.DisplayName,
		Hole:        hole,
		TotalScore:  total,
		Played:      played,
	}
	go m.recordHole(result)
}

func (m *RunManager) onActivity(r *Run) {
	m.touch(r.Token, time.Now())
}
