package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/minigolfstudio/backend/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartRunEventSubscriber relays run events published by any server instance
// to the clients connected here.
func StartRunEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; run event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.RunEventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", game.RunEventsChannel)
		for msg := range ch {
			handleRunEvent([]byte(msg.Payload))
		}
		log.Printf("[WS] %s subscriber stopped", game.RunEventsChannel)
	}()
}

func handleRunEvent(payload []byte) {
	var ev game.RunEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}

	switch ev.Type {
	case "hole_complete":
		GameHub.SendToRun(ev.RunToken, map[string]interface{}{
			"type":        "hole_complete",
			"level_id":    ev.LevelID,
			"strokes":     ev.Strokes,
			"par":         ev.Par,
			"score":       ev.Score,
			"label":       ev.Label,
			"total_score": ev.TotalScore,
		})
		GameHub.BroadcastAll(map[string]interface{}{
			"type":         "leaderboard_update",
			"level_id":     ev.LevelID,
			"player_id":    ev.PlayerID,
			"display_name": ev.DisplayName,
			"strokes":      ev.Strokes,
		})

	case "run_abandoned":
		GameHub.SendToRun(ev.RunToken, map[string]interface{}{
			"type":    "run_abandoned",
			"message": ev.Message,
		})

	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
