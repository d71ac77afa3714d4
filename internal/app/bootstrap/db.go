// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratawallet/internal/app/system/indexes"
	"github.com/dalemusser/stratawallet/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB.
//
// An unreachable server does not abort startup: the failure is logged and a
// client that connects on first use is returned instead, so the service
// comes up and answers 500 until the database is back.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err == nil {
		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
			zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
		)
		return DBDeps{
			MongoClient:   client,
			MongoDatabase: client.Database(appCfg.MongoDatabase),
			Connected:     true,
		}, nil
	}

	logger.Error("MongoDB unreachable at startup; continuing with lazy connection",
		zap.String("database", appCfg.MongoDatabase),
		zap.Error(err),
	)

	lazy, lazyErr := mongo.Connect(context.Background(), options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(poolCfg.MaxPoolSize).
		SetMinPoolSize(poolCfg.MinPoolSize))
	if lazyErr != nil {
		return DBDeps{}, fmt.Errorf("create MongoDB client: %w", lazyErr)
	}
	return DBDeps{
		MongoClient:   lazy,
		MongoDatabase: lazy.Database(appCfg.MongoDatabase),
		Connected:     false,
	}, nil
}

// EnsureSchema creates collections, validators and indexes.
//
// When the database was unreachable at boot this is skipped; Startup
// registers a job that retries it.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if !deps.Connected {
		logger.Warn("skipping schema setup until MongoDB is reachable")
		return nil
	}
	if err := ensureSchema(ctx, deps.MongoDatabase, logger); err != nil {
		return err
	}
	logger.Info("database schema ensured successfully")
	return nil
}

func ensureSchema(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	// Collections and validators first so indexes land on existing collections.
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
