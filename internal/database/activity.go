// internal/database/activity.go
package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/DanielGaudlandJacobsen/socialinsecurity/internal/models"
)

// InsertActivityRecords writes a batch of activity-log rows in one
// transaction. Used by the historian when draining the Redis queue.
func (s *Store) InsertActivityRecords(ctx context.Context, records []models.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	q := `
	INSERT INTO activity_log (actor_id, event_type, payload, ts)
	VALUES ($1, $2, $3, $4)
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			payload := rec.Payload
			if payload == nil {
				payload = map[string]interface{}{}
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			ts := time.UnixMilli(rec.Timestamp)
			if _, err := tx.Exec(ctx, q, rec.ActorID, rec.EventType, data, ts); err != nil {
				return err
			}
		}
		return nil
	})
}
