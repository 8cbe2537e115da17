// internal/activity/historian_test.go
package activity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// TestPublishRoundTrip pushes one record through Redis and reads it back.
// Requires a local Redis; skipped otherwise.
func TestPublishRoundTrip(t *testing.T) {
	cfg := config.Load()
	cfg.ActivityQueue = "social_activity_test_" + uuid.NewString()[:8]

	pub, err := NewPublisher(cfg)
	if err != nil {
		t.Skipf("no Redis available: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	actor := uuid.New()
	err = pub.Publish(ctx, actor, models.EventPostCreated, map[string]interface{}{"post_id": uuid.NewString()})
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()
	defer rdb.Del(context.Background(), cfg.ActivityQueue)

	res, err := rdb.BLPop(ctx, time.Second, cfg.ActivityQueue).Result()
	require.NoError(t, err)
	require.Len(t, res, 2)

	var rec models.ActivityRecord
	require.NoError(t, json.Unmarshal([]byte(res[1]), &rec))
	require.Equal(t, actor, rec.ActorID)
	require.Equal(t, models.EventPostCreated, rec.EventType)
	require.NotZero(t, rec.Timestamp)
}
