// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/stratawallet/internal/app/system/auditlog"
	"github.com/dalemusser/stratawallet/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables (STRATAWALLET_MONGO_URI, ...).
const EnvVarPrefix = "STRATAWALLET"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_ttl, etc.
//   - Environment variables: STRATAWALLET_MONGO_URI, STRATAWALLET_SESSION_TTL, etc.
//   - Command-line flags: --mongo_uri, --session_ttl, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "my_wallet", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 30m)"},

	{Name: "request_timeout", Default: "30s", Desc: "Per-request deadline"},
	{Name: "session_record_timeout", Default: "10s", Desc: "Deadline for the background registros write after login"},
	{Name: "ping_timeout", Default: "2s", Desc: "MongoDB ping deadline for health checks"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated CORS origins (blank allows any origin)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config.yaml/json/toml,
// environment variables (WAFFLE_* for core, STRATAWALLET_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionTTL: appValues.Duration("session_ttl", 24*time.Hour),

		RequestTimeout:       appValues.Duration("request_timeout", timeouts.DefaultRequest),
		SessionRecordTimeout: appValues.Duration("session_record_timeout", timeouts.DefaultRecord),
		PingTimeout:          appValues.Duration("ping_timeout", timeouts.DefaultPing),

		AuditLogAuth: appValues.String("audit_log_auth"),

		CORSAllowedOrigins: appValues.String("cors_allowed_origins"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
// Returning an error aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", appCfg.SessionTTL)
	}
	if appCfg.RequestTimeout < 0 || appCfg.SessionRecordTimeout < 0 || appCfg.PingTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if !auditlog.IsValidMode(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be one of all, db, log, off; got %q", appCfg.AuditLogAuth)
	}

	return nil
}
