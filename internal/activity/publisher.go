// Package activity feeds the asynchronous activity log. The web server
// publishes records to a Redis list; the historian binary drains the list
// into the activity_log table.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// Publisher pushes activity records onto the Redis queue.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// NewPublisher connects a Redis client and verifies it with a ping.
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	return &Publisher{rdb: rdb, queue: cfg.ActivityQueue}, nil
}

// Publish serializes the record and RPushes it onto the queue. Callers treat
// a failure as log-and-continue: the activity log is best effort and never
// fails a request.
func (p *Publisher) Publish(ctx context.Context, actorID uuid.UUID, eventType string, payload map[string]interface{}) error {
	rec := models.ActivityRecord{
		ActorID:   actorID,
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal activity record: %w", err)
	}

	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// Close releases the Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
