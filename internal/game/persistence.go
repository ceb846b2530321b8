package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/minigolfstudio/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// Redis keys and channels
const (
	idleSetKey         = "run_idle"
	lastActivePrefix   = "last_active:run:"
	leaderboardPrefix  = "leaderboard:level:"
	leaderboardNameKey = "leaderboard:names"
	RunEventsChannel   = "run_events"

	snapshotTTL = time.Hour
)

var (
	ErrNoRedis    = errors.New("redis not configured")
	ErrNoDatabase = errors.New("database not configured")
)

// RunEvent is published on RunEventsChannel so every server instance can
// relay it to its WebSocket clients.
type RunEvent struct {
	Type        string `json:"type"` // hole_complete, run_abandoned
	RunToken    string `json:"run_token"`
	PlayerID    int    `json:"player_id"`
	DisplayName string `json:"display_name,omitempty"`
	LevelID     int    `json:"level_id,omitempty"`
	Strokes     int    `json:"strokes,omitempty"`
	Par         int    `json:"par,omitempty"`
	Score       int    `json:"score"`
	Label       string `json:"label,omitempty"`
	TotalScore  int    `json:"total_score"`
	Message     string `json:"message,omitempty"`
}

// LeaderboardEntry is one row of a level leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    int    `json:"player_id"`
	DisplayName string `json:"display_name"`
	Strokes     int    `json:"strokes"`
}

type holeRecord struct {
	RunToken    string
	PlayerID    int
	DisplayName string
	Hole        HoleScore
	TotalScore  int
	Played      time.Duration
}

func runStateKey(token string) string {
	return "run:" + token + ":state"
}

func leaderboardKey(levelID int) string {
	return leaderboardPrefix + strconv.Itoa(levelID)
}

// saveRunSnapshot keeps the latest view of a run in Redis for an hour.
func (m *RunManager) saveRunSnapshot(v RunView) {
	if m.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal run %s: %v", v.Token, err)
		return
	}
	if err := m.rdb.SetEx(context.Background(), runStateKey(v.Token), data, snapshotTTL).Err(); err != nil {
		log.Printf("[REDIS] Failed to save run %s: %v", v.Token, err)
	}
}

// LoadRunSnapshot reads the last saved view of a run that may no longer be live.
func (m *RunManager) LoadRunSnapshot(ctx context.Context, token string) (*RunView, error) {
	if m.rdb == nil {
		return nil, ErrNoRedis
	}
	data, err := m.rdb.Get(ctx, runStateKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	var v RunView
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding run snapshot: %w", err)
	}
	return &v, nil
}

// recordHole persists a completed hole everywhere it is needed.
func (m *RunManager) recordHole(rec holeRecord) {
	ctx := context.Background()

	if err := m.insertHoleResult(rec); err != nil && !errors.Is(err, ErrNoDatabase) {
		log.Printf("[DB] Failed to record hole %d for player %d: %v", rec.Hole.LevelID, rec.PlayerID, err)
	}
	if err := m.submitLeaderboard(ctx, rec.Hole.LevelID, rec.PlayerID, rec.DisplayName, rec.Hole.Strokes); err != nil && !errors.Is(err, ErrNoRedis) {
		log.Printf("[REDIS] Failed to update leaderboard for level %d: %v", rec.Hole.LevelID, err)
	}
	m.publish(ctx, RunEvent{
		Type:        "hole_complete",
		RunToken:    rec.RunToken,
		PlayerID:    rec.PlayerID,
		DisplayName: rec.DisplayName,
		LevelID:     rec.Hole.LevelID,
		Strokes:     rec.Hole.Strokes,
		Par:         rec.Hole.Par,
		Score:       rec.Hole.Score,
		Label:       rec.Hole.Label,
		TotalScore:  rec.TotalScore,
	})
}

func (m *RunManager) insertHoleResult(rec holeRecord) error {
	if m.db == nil {
		return ErrNoDatabase
	}
	tx, err := m.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO hole_results (player_id, run_token, level_id, strokes, par, score, duration_ms, completed_at)
		VALUES (:player_id, :run_token, :level_id, :strokes, :par, :score, :duration_ms, NOW())`,
		models.HoleResult{
			PlayerID:   rec.PlayerID,
			RunToken:   rec.RunToken,
			LevelID:    rec.Hole.LevelID,
			Strokes:    rec.Hole.Strokes,
			Par:        rec.Hole.Par,
			Score:      rec.Hole.Score,
			DurationMs: rec.Played.Milliseconds(),
		})
	if err != nil {
		return err
	}
	// Every attempt stays in hole_results; player totals count only the
	// latest attempt of each hole in each run.
	if _, err := tx.Exec(`UPDATE players SET
			holes_played = (SELECT COUNT(DISTINCT (run_token, level_id)) FROM hole_results WHERE player_id = $1),
			total_score = (SELECT COALESCE(SUM(score), 0) FROM (
				SELECT DISTINCT ON (run_token, level_id) score FROM hole_results
				WHERE player_id = $1 ORDER BY run_token, level_id, id DESC) latest),
			last_active = NOW()
		WHERE id = $1`, rec.PlayerID); err != nil {
		return err
	}
	return tx.Commit()
}

// submitLeaderboard keeps the lowest stroke count per player on a level.
func (m *RunManager) submitLeaderboard(ctx context.Context, levelID, playerID int, displayName string, strokes int) error {
	if m.rdb == nil {
		return ErrNoRedis
	}
	member := strconv.Itoa(playerID)
	pipe := m.rdb.TxPipeline()
	pipe.ZAddArgs(ctx, leaderboardKey(levelID), redis.ZAddArgs{
		LT:      true,
		Members: []redis.Z{{Score: float64(strokes), Member: member}},
	})
	pipe.HSet(ctx, leaderboardNameKey, member, displayName)
	_, err := pipe.Exec(ctx)
	return err
}

// Leaderboard returns the best stroke counts on a level, lowest first.
func (m *RunManager) Leaderboard(ctx context.Context, levelID, limit int) ([]LeaderboardEntry, error) {
	if m.rdb == nil {
		return nil, ErrNoRedis
	}
	if limit <= 0 {
		limit = m.config.LeaderboardSize
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := m.rdb.ZRangeWithScores(ctx, leaderboardKey(levelID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	if len(rows) == 0 {
		return entries, nil
	}

	members := make([]string, len(rows))
	for i, z := range rows {
		members[i], _ = z.Member.(string)
	}
	names, err := m.rdb.HMGet(ctx, leaderboardNameKey, members...).Result()
	if err != nil {
		log.Printf("[REDIS] Failed to resolve leaderboard names: %v", err)
		names = make([]interface{}, len(members))
	}

	for i, z := range rows {
		id, err := strconv.Atoi(members[i])
		if err != nil {
			continue
		}
		name, _ := names[i].(string)
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			PlayerID:    id,
			DisplayName: name,
			Strokes:     int(z.Score),
		})
	}
	return entries, nil
}

// PlayerScores returns a player's recent holes and their best result per level.
func (m *RunManager) PlayerScores(playerID, limit int) ([]models.HoleResult, []models.LevelBest, error) {
	if m.db == nil {
		return nil, nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = 20
	}
	recent := []models.HoleResult{}
	if err := m.db.Select(&recent, `SELECT id, player_id, run_token, level_id, strokes, par, score, duration_ms, completed_at
		FROM hole_results WHERE player_id = $1 ORDER BY completed_at DESC LIMIT $2`, playerID, limit); err != nil {
		return nil, nil, err
	}
	bests := []models.LevelBest{}
	if err := m.db.Select(&bests, `SELECT level_id, MIN(strokes) AS best_strokes, COUNT(*) AS attempts
		FROM hole_results WHERE player_id = $1 GROUP BY level_id ORDER BY level_id`, playerID); err != nil {
		return nil, nil, err
	}
	return recent, bests, nil
}

func (m *RunManager) publish(ctx context.Context, ev RunEvent) {
	if m.rdb == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if n, err := m.rdb.Publish(ctx, RunEventsChannel, b).Result(); err != nil {
		log.Printf("[REDIS] publish %s failed: run=%s err=%v", ev.Type, ev.RunToken, err)
	} else {
		log.Printf("[REDIS] published %s: run=%s subscribers=%d", ev.Type, ev.RunToken, n)
	}
}
