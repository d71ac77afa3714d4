package auditlog

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stratawallet/internal/app/store/audit"
	"github.com/dalemusser/stratawallet/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "10.0.0.5:4321", nil, "10.0.0.5"},
		{"ipv6 remote addr", "[::1]:4321", nil, "::1"},
		{"no port", "10.0.0.5", nil, "10.0.0.5"},
		{"forwarded list", "10.0.0.5:1", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"real ip", "10.0.0.5:1", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !IsValidMode(m) {
			t.Errorf("IsValidMode(%q) = false", m)
		}
	}
	if IsValidMode("verbose") {
		t.Error(`IsValidMode("verbose") = true`)
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	r := httptest.NewRequest("POST", "/", nil)
	l.LoginFailedUserNotFound(r, "ana@x.com")
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode    string
		wantDB  int
		wantZap int
	}{
		{ModeAll, 1, 1},
		{ModeDB, 1, 0},
		{ModeLog, 0, 1},
		{ModeOff, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			core, logs := observer.New(zap.InfoLevel)
			l := New(store, zap.New(core), Config{Auth: tt.mode})

			userID := primitive.NewObjectID()
			r := httptest.NewRequest("POST", "/", nil)
			l.LoginSuccess(r, userID, "ana@x.com")

			ctx, cancel := testutil.TestContext()
			defer cancel()
			events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("stored %d events, want %d", len(events), tt.wantDB)
			}
			if logs.Len() != tt.wantZap {
				t.Errorf("logged %d zap entries, want %d", logs.Len(), tt.wantZap)
			}
		})
	}
}

func TestLogger_FailureEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zap.InfoLevel)
	l := New(store, zap.New(core), Config{})

	r := httptest.NewRequest("POST", "/", nil)
	l.LoginFailedUserNotFound(r, "ghost@x.com")
	l.LoginFailedWrongPassword(r, primitive.NewObjectID(), "ana@x.com")
	l.RegistrationRejected(r, "ana@x.com", "duplicate email")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("stored %d events, want 3", len(events))
	}
	for _, e := range events {
		if e.Success {
			t.Errorf("event %s stored as success", e.EventType)
		}
		if e.FailureReason == "" {
			t.Errorf("event %s has no failure reason", e.EventType)
		}
	}
	if n := logs.FilterLevelExact(zap.WarnLevel).Len(); n != 3 {
		t.Errorf("logged %d warnings, want 3", n)
	}
}
