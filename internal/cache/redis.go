// Package cache publishes the game event stream to Redis for the historian.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Rdb is the shared client. It stays nil when Redis is not configured.
var Rdb *redis.Client

// Channel receives every published record.
const Channel = "palantarot:events"

// ConnectRedis opens the shared client and checks it answers.
func ConnectRedis(ctx context.Context, addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	Rdb = client
	log.Infof("Connected to Redis at %s", addr)
	return nil
}

// GameEventRecord is one log entry as stored for the historian.
type GameEventRecord struct {
	GameID     string           `json:"gameId"`
	EventIndex int              `json:"eventIndex"`
	Actor      engine.PlayerID  `json:"actor,omitempty"`
	EventType  engine.EventType `json:"eventType"`
	Event      engine.Event     `json:"event"`
	Timestamp  int64            `json:"timestamp"`
}

// EventsKey is the Redis list holding a game's records in log order.
func EventsKey(gameID string) string {
	return "palantarot:game:" + gameID + ":events"
}

// PublishGameEvent appends rec to its game list and announces it on Channel.
func PublishGameEvent(ctx context.Context, rdb *redis.Client, rec GameEventRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := rdb.TxPipeline()
	pipe.RPush(ctx, EventsKey(rec.GameID), data)
	pipe.Publish(ctx, Channel, data)
	_, err = pipe.Exec(ctx)
	return err
}

// LoadGameEvents reads back every record of a game.
func LoadGameEvents(ctx context.Context, rdb *redis.Client, gameID string) ([]GameEventRecord, error) {
	raw, err := rdb.LRange(ctx, EventsKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]GameEventRecord, 0, len(raw))
	for _, s := range raw {
		var rec GameEventRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("game %s: corrupt record: %w", gameID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
