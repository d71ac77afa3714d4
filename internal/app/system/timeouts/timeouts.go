// Package timeouts provides centralized timeout values for handler and
// background operations.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultRecord  = 10 * time.Second
	DefaultRequest = 30 * time.Second
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping    = DefaultPing
	record  = DefaultRecord
	request = DefaultRequest
)

// Ping returns the timeout for database health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Record returns the timeout for the background session record write.
func Record() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return record
}

// Request returns the overall per-request deadline.
func Request() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return request
}

// Config holds timeout configuration values. Zero fields keep the current value.
type Config struct {
	Ping    time.Duration
	Record  time.Duration
	Request time.Duration
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Record > 0 {
		record = cfg.Record
	}
	if cfg.Request > 0 {
		request = cfg.Request
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	record = DefaultRecord
	request = DefaultRequest
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Record: record, Request: request}
}

// WithTimeout creates a context with timeout and logs a warning when the
// deadline, rather than the parent, ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && parent.Err() == nil && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
