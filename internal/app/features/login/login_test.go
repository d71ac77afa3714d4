package login

import (
	"context"
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratawallet/internal/app/features/errors"
	loginstore "github.com/dalemusser/stratawallet/internal/app/store/logins"
	registrostore "github.com/dalemusser/stratawallet/internal/app/store/registros"
	userstore "github.com/dalemusser/stratawallet/internal/app/store/users"
	"github.com/dalemusser/stratawallet/internal/app/system/authutil"
	"github.com/dalemusser/stratawallet/internal/app/system/metrics"
	"github.com/dalemusser/stratawallet/internal/app/system/tasks"
	"github.com/dalemusser/stratawallet/internal/domain/models"
	"github.com/dalemusser/stratawallet/internal/testutil"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fixture struct {
	db      *mongo.Database
	handler http.Handler
	logins  *loginstore.Store
	runner  *tasks.Runner
	user    models.User
}

// newFixture registers Ana (ana@x.com / abc123) and builds the login route.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := authutil.HashPassword("abc123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	user, err := userstore.New(db).Create(ctx, models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: hash})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	logger := zap.NewNop()
	runner := tasks.New(logger)
	logins := loginstore.New(db, time.Hour)
	h := NewHandler(db, logins, runner, errorsfeature.NewErrorLogger(logger), nil, logger)

	return &fixture{db: db, handler: Routes(h), logins: logins, runner: runner, user: user}
}

func (f *fixture) post(body any) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/", body))
	return rec
}

// drain waits for background registros writes.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := f.runner.Stop(ctx); err != nil {
		t.Fatalf("runner.Stop() error = %v", err)
	}
}

func TestLogin_ValidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := promtest.ToFloat64(metrics.Logins.WithLabelValues(metrics.ResultSuccess))

	rec := f.post(map[string]string{"email": "ana@x.com", "senha": "abc123"})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContentType(t, "text/plain")

	token := rec.Body.String()
	if _, err := uuid.Parse(token); err != nil {
		t.Fatalf("body %q is not a UUID: %v", token, err)
	}

	// Resolvable as soon as the response is out.
	l, err := f.logins.GetActiveByToken(ctx, token)
	if err != nil {
		t.Fatalf("GetActiveByToken() error = %v", err)
	}
	if l.UserID != f.user.ID {
		t.Errorf("log UserID = %v, want %v", l.UserID, f.user.ID)
	}
	if l.Day != l.CreatedAt.Local().Format(models.DayMonthLayout) {
		t.Errorf("log Day = %q", l.Day)
	}

	f.drain(t)
	recs, err := registrostore.New(f.db).ListByUser(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Token != token {
		t.Errorf("registros = %+v, want one entry for token %s", recs, token)
	}

	if got := promtest.ToFloat64(metrics.Logins.WithLabelValues(metrics.ResultSuccess)); got != before+1 {
		t.Errorf("success counter = %v, want %v", got, before+1)
	}
}

func TestLogin_RepeatedLoginsIssueDistinctTokens(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := f.post(map[string]string{"email": "ana@x.com", "senha": "abc123"})
	second := f.post(map[string]string{"email": "ana@x.com", "senha": "abc123"})
	first.AssertStatus(t, http.StatusOK)
	second.AssertStatus(t, http.StatusOK)

	if first.Body.String() == second.Body.String() {
		t.Error("two logins returned the same token")
	}

	n, err := f.logins.CountByUser(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if n != 2 {
		t.Errorf("logs entries = %d, want 2", n)
	}
	f.drain(t)
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	rec := f.post(map[string]string{"email": " ANA@X.com", "senha": "abc123"})
	rec.AssertStatus(t, http.StatusOK)
	f.drain(t)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wrong := f.post(map[string]string{"email": "ana@x.com", "senha": "abc124"})
	unknown := f.post(map[string]string{"email": "bob@x.com", "senha": "abc123"})

	for _, rec := range []*testutil.ResponseRecorder{wrong, unknown} {
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertBody(t, MsgUserNotFound)
	}

	n, err := f.logins.CountByUser(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if n != 0 {
		t.Errorf("logs entries = %d, want 0", n)
	}
}

func TestLogin_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
		want []string
	}{
		{
			name: "empty object",
			body: map[string]string{},
			want: []string{`"email" is required`, `"senha" is required`},
		},
		{
			name: "no body",
			body: nil,
			want: []string{`"email" is required`, `"senha" is required`},
		},
		{
			name: "password is a number",
			body: map[string]any{"email": "ana@x.com", "senha": 123456},
			want: []string{`"senha" must be a string`},
		},
		{
			name: "password breaks two rules",
			body: map[string]string{"email": "ana@x.com", "senha": "ab!"},
			want: []string{`"senha" must only contain alpha-numeric characters`, `"senha" length must be at least 6 characters long`},
		},
		{
			name: "email without dotted domain",
			body: map[string]string{"email": "ana@x", "senha": "abc123"},
			want: []string{`"email" must be a valid email`},
		},
		{
			name: "bad email and short password",
			body: map[string]string{"email": "ana", "senha": "ab"},
			want: []string{`"email" must be a valid email`, `"senha" length must be at least 6 characters long`},
		},
		{
			name: "symbols in password",
			body: map[string]string{"email": "ana@x.com", "senha": "abc-123"},
			want: []string{`"senha" must only contain alpha-numeric characters`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.post(tt.body)
			rec.AssertStatus(t, http.StatusUnprocessableEntity)
			rec.AssertContentType(t, "application/json")

			var got []string
			rec.DecodeJSON(t, &got)
			if len(got) != len(tt.want) {
				t.Fatalf("messages = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("message[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLogin_UnknownEmailRunsBcrypt(t *testing.T) {
	f := newFixture(t)
	hash := authutil.DummyHash()

	start := time.Now()
	authutil.CheckPassword("abc123", hash)
	compare := time.Since(start)

	start = time.Now()
	f.post(map[string]string{"email": "bob@x.com", "senha": "abc123"}).AssertStatus(t, http.StatusNotFound)
	miss := time.Since(start)

	// A miss must cost at least a sizeable part of one bcrypt comparison.
	if miss < compare/2 {
		t.Errorf("unknown email answered in %v, bcrypt compare takes %v", miss, compare)
	}
}

func TestLogin_WrongMethod(t *testing.T) {
	f := newFixture(t)

	rec := testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
	rec.AssertContentType(t, "application/json")
	rec.AssertContains(t, `"method not allowed"`)
}

func TestLogin_MalformedJSON(t *testing.T) {
	f := newFixture(t)
	rec := f.post(`{"email": "ana@x.com",`)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertBody(t, MsgBadJSON)
}

func TestLogin_RecordFailureDoesNotFailLogin(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Make every registros insert fail.
	err := f.db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: registrostore.Collection},
		{Key: "validator", Value: bson.M{"$jsonSchema": bson.M{"required": bson.A{"never_present"}}}},
		{Key: "validationAction", Value: "error"},
	}).Err()
	if err != nil {
		t.Fatalf("collMod error = %v", err)
	}

	before := promtest.ToFloat64(metrics.SessionRecordFailures)

	rec := f.post(map[string]string{"email": "ana@x.com", "senha": "abc123"})
	rec.AssertStatus(t, http.StatusOK)

	if _, err := f.logins.GetActiveByToken(ctx, rec.Body.String()); err != nil {
		t.Errorf("token not resolvable: %v", err)
	}

	f.drain(t)
	if got := promtest.ToFloat64(metrics.SessionRecordFailures); got != before+1 {
		t.Errorf("record failure counter = %v, want %v", got, before+1)
	}
}
