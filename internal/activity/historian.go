// internal/activity/historian.go
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/config"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/database"
	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// Historian drains the activity queue into the activity_log table. Records
// accumulate in an in-memory batch that is flushed when it reaches batchSize
// or when flushDelay elapses, whichever comes first.
type Historian struct {
	rdb        *redis.Client
	store      *database.Store
	log        *logrus.Logger
	queue      string
	batchSize  int
	flushDelay time.Duration

	batchMu sync.Mutex
	batch   []models.ActivityRecord
}

// NewHistorian constructs a Historian from config plus the
// HISTORIAN_BATCH_SIZE and HISTORIAN_FLUSH_MS env variables.
func NewHistorian(cfg *config.Config, store *database.Store, log *logrus.Logger) *Historian {
	batchSize := config.GetEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := config.GetEnvInt("HISTORIAN_FLUSH_MS", 500)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	return &Historian{
		rdb:        rdb,
		store:      store,
		log:        log,
		queue:      cfg.ActivityQueue,
		batchSize:  batchSize,
		flushDelay: time.Duration(flushMs) * time.Millisecond,
		batch:      make([]models.ActivityRecord, 0, batchSize),
	}
}

// Run blocks reading the queue until ctx is canceled, then flushes whatever
// is left.
func (h *Historian) Run(ctx context.Context) {
	ticker := time.NewTicker(h.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.flush(context.Background())
			return

		case <-ticker.C:
			h.flush(ctx)

		default:
			// BLPop with a short timeout so cancellation is noticed.
			res, err := h.rdb.BLPop(ctx, 3*time.Second, h.queue).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				h.log.WithError(err).Error("BLPop failed")
				continue
			}
			if len(res) < 2 {
				continue
			}

			// res[0] is the queue name, res[1] the payload.
			var rec models.ActivityRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				h.log.WithError(err).Warn("discarding invalid activity record")
				continue
			}
			h.append(ctx, rec)
		}
	}
}

func (h *Historian) append(ctx context.Context, rec models.ActivityRecord) {
	h.batchMu.Lock()
	h.batch = append(h.batch, rec)
	full := len(h.batch) >= h.batchSize
	h.batchMu.Unlock()

	if full {
		h.flush(ctx)
	}
}

func (h *Historian) flush(ctx context.Context) {
	h.batchMu.Lock()
	if len(h.batch) == 0 {
		h.batchMu.Unlock()
		return
	}
	batch := make([]models.ActivityRecord, len(h.batch))
	copy(batch, h.batch)
	h.batch = h.batch[:0]
	h.batchMu.Unlock()

	if err := h.store.InsertActivityRecords(ctx, batch); err != nil {
		h.log.WithError(err).Errorf("failed to flush %d activity records", len(batch))
		return
	}
	h.log.Debugf("flushed %d activity records", len(batch))
}

// Close releases the Redis client.
func (h *Historian) Close() error {
	return h.rdb.Close()
}
