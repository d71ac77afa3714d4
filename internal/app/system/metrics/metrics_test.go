package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(Logins.WithLabelValues(ResultSuccess))
	Logins.WithLabelValues(ResultSuccess).Inc()
	if got := testutil.ToFloat64(Logins.WithLabelValues(ResultSuccess)); got != before+1 {
		t.Errorf("logins success = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(SessionRecordFailures)
	SessionRecordFailures.Inc()
	if got := testutil.ToFloat64(SessionRecordFailures); got != before+1 {
		t.Errorf("session record failures = %v, want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	Registrations.WithLabelValues(ResultConflict).Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "stratawallet_registrations_total") {
		t.Error("metrics output should include stratawallet_registrations_total")
	}
}
