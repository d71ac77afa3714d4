// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Framework-level settings such
// as ports, TLS, log level and DB timeouts live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// SessionTTL is how long an issued bearer token stays valid (default: 24h).
	SessionTTL time.Duration

	// Operation deadlines; zero keeps the package default in timeouts.
	RequestTimeout       time.Duration // whole request (default: 30s)
	SessionRecordTimeout time.Duration // background registros write (default: 10s)
	PingTimeout          time.Duration // health check ping (default: 2s)

	// AuditLogAuth routes login/registration/logout events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth string

	// CORSAllowedOrigins is a comma-separated allow list. Blank allows any origin.
	CORSAllowedOrigins string
}
