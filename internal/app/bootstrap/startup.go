// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/stratawallet/internal/app/system/tasks"
	"github.com/dalemusser/stratawallet/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// schemaRetryInterval is how often schema setup is retried when the
// database was unreachable at boot.
const schemaRetryInterval = time.Minute

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It applies the configured operation timeouts and starts the background
// task runner. BuildHandler hands the same runner to
// the login feature for its best-effort session record writes, so Startup must
// run first.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:    appCfg.PingTimeout,
		Record:  appCfg.SessionRecordTimeout,
		Request: appCfg.RequestTimeout,
	})

	startTaskRunner(deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(deps DBDeps, logger *zap.Logger) {
	db := deps.MongoDatabase
	taskRunner = tasks.New(logger)

	// Expired and revoked login logs.
	taskRunner.Register(tasks.SessionCleanupJob(db, logger))

	if !deps.Connected {
		taskRunner.Register(tasks.EnsureSchemaJob(func(ctx context.Context) error {
			return ensureSchema(ctx, db, logger)
		}, schemaRetryInterval, logger))
		logger.Warn("database unreachable at boot; schema setup will be retried",
			zap.Duration("interval", schemaRetryInterval))
	}

	taskRunner.Start()
}
