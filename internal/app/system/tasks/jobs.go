// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RevokedRetention is how long revoked login logs are kept before cleanup.
const RevokedRetention = 24 * time.Hour

// SessionCleanupJob creates a job that removes expired and long-revoked
// login logs. The TTL index on expires_at covers expiry as well; this job
// also catches revoked entries and servers where TTL monitoring is slow.
func SessionCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "session-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			now := time.Now().UTC()
			result, err := db.Collection("logs").DeleteMany(ctx, bson.M{
				"$or": []bson.M{
					{"expires_at": bson.M{"$lt": now}},
					{"revoked_at": bson.M{"$lt": now.Add(-RevokedRetention)}},
				},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired sessions",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// EnsureSchemaJob retries schema setup until it succeeds once.
// Used when the database was unreachable at boot.
func EnsureSchemaJob(ensure func(ctx context.Context) error, interval time.Duration, logger *zap.Logger) Job {
	var done atomic.Bool
	return Job{
		Name:     "ensure-schema",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if done.Load() {
				return nil
			}
			if err := ensure(ctx); err != nil {
				return err
			}
			done.Store(true)
			logger.Info("database schema ensured after delayed connection")
			return nil
		},
	}
}
