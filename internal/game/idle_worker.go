package game

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// touch records activity on a run and schedules its idle deadline.
func (m *RunManager) touch(token string, now time.Time) {
	if m.rdb == nil {
		return
	}
	ctx := context.Background()
	deadline := now.Add(m.config.RunIdleTimeout()).Unix()
	pipe := m.rdb.Pipeline()
	pipe.Set(ctx, lastActivePrefix+token, strconv.FormatInt(now.Unix(), 10), m.config.RunIdleTimeout()+time.Hour)
	pipe.ZAdd(ctx, idleSetKey, redis.Z{Score: float64(deadline), Member: token})
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[SWEEP] failed to touch run %s: %v", token, err)
	}
}

func (m *RunManager) clearIdle(token string) {
	if m.rdb == nil {
		return
	}
	ctx := context.Background()
	m.rdb.ZRem(ctx, idleSetKey, token)
	m.rdb.Del(ctx, lastActivePrefix+token)
}

// StartIdleWorker abandons runs nobody has touched for RUN_IDLE_TIMEOUT_SECONDS.
// With Redis the deadlines live in a sorted set; without it the live runs are scanned.
func (m *RunManager) StartIdleWorker(ctx context.Context) {
	interval := time.Duration(m.config.RunSweepIntervalSec) * time.Second
	if interval <= 0 || m.config.RunIdleTimeout() <= 0 {
		log.Println("[SWEEP] Idle sweep disabled")
		return
	}

	log.Println("[SWEEP] Idle worker started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[SWEEP] Idle worker stopping")
				return
			case now := <-ticker.C:
				var n int
				if m.rdb != nil {
					n = m.sweepRedis(ctx, now)
				} else {
					n = m.sweepMemory(now)
				}
				if n > 0 {
					log.Printf("[SWEEP] abandoned %d idle runs", n)
				}
			}
		}
	}()
}

// sweepRedis pops every run whose deadline has passed and abandons it if
// its last recorded activity confirms the timeout.
func (m *RunManager) sweepRedis(ctx context.Context, now time.Time) int {
	members, err := m.rdb.ZRangeByScore(ctx, idleSetKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now.Unix())}).Result()
	if err != nil {
		log.Printf("[SWEEP] Failed to fetch idle runs: %v", err)
		return 0
	}

	abandoned := 0
	for _, token := range members {
		// Only the instance that removes the member handles it.
		if removed, _ := m.rdb.ZRem(ctx, idleSetKey, token).Result(); removed == 0 {
			continue
		}
		last, _ := m.rdb.Get(ctx, lastActivePrefix+token).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if now.Unix()-lastTs < int64(m.config.RunIdleTimeoutSecs) {
			continue
		}
		if m.abandon(ctx, token) {
			abandoned++
		}
	}
	return abandoned
}

// sweepMemory is the Redis-less fallback.
func (m *RunManager) sweepMemory(now time.Time) int {
	timeout := m.config.RunIdleTimeout()
	m.mu.RLock()
	var idle []string
	for token, r := range m.runs {
		if now.Sub(r.View().LastActivity) >= timeout {
			idle = append(idle, token)
		}
	}
	m.mu.RUnlock()

	abandoned := 0
	for _, token := range idle {
		if m.abandon(context.Background(), token) {
			abandoned++
		}
	}
	return abandoned
}

func (m *RunManager) abandon(ctx context.Context, token string) bool {
	r, err := m.GetRun(token)
	if err != nil {
		return false
	}
	log.Printf("[SWEEP] Abandoning run %s for player %d due to inactivity", token, r.PlayerID)
	if err := m.EndRun(token, StatusAbandoned); err != nil {
		return false
	}
	m.publish(ctx, RunEvent{
		Type:     "run_abandoned",
		RunToken: token,
		PlayerID: r.PlayerID,
		Message:  "Run closed after inactivity",
	})
	return true
}
