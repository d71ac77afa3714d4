// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/stratawallet/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config.Auth.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// IsValidMode reports whether m is an accepted destination.
func IsValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls where authentication events go.
	Auth string
}

// Logger writes audit events to MongoDB and/or zap depending on Config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if config.Auth == "" {
		config.Auth = ModeAll
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP prefers proxy headers, then the connection's remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event. A nil Logger is a no-op so tests can omit it.
// Storage failures are logged and never reach the caller.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Auth
	if setting == ModeOff {
		return
	}
	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) authEvent(r *http.Request, eventType string, userID *primitive.ObjectID, success bool, reason string, details map[string]string) {
	l.Log(r.Context(), audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: reason,
		Details:       details,
	})
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(r *http.Request, userID primitive.ObjectID, email string) {
	l.authEvent(r, audit.EventLoginSuccess, &userID, true, "", map[string]string{"email": email})
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(r *http.Request, email string) {
	l.authEvent(r, audit.EventLoginFailedUserNotFound, nil, false, "user not found",
		map[string]string{"attempted_email": email})
}

// LoginFailedWrongPassword logs a login attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(r *http.Request, userID primitive.ObjectID, email string) {
	l.authEvent(r, audit.EventLoginFailedWrongPassword, &userID, false, "wrong password",
		map[string]string{"email": email})
}

// UserRegistered logs a new account.
func (l *Logger) UserRegistered(r *http.Request, userID primitive.ObjectID, email string) {
	l.authEvent(r, audit.EventUserRegistered, &userID, true, "", map[string]string{"email": email})
}

// RegistrationRejected logs a registration refused by a domain rule.
func (l *Logger) RegistrationRejected(r *http.Request, email, reason string) {
	l.authEvent(r, audit.EventRegistrationRejected, nil, false, reason, map[string]string{"email": email})
}

// Logout logs a token revocation.
func (l *Logger) Logout(r *http.Request, userID primitive.ObjectID) {
	l.authEvent(r, audit.EventLogout, &userID, true, "", nil)
}
