package apicors

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestFromConfig_AnyOrigin(t *testing.T) {
	h := FromConfig("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/paginaPrincipal", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestFromConfig_OriginList(t *testing.T) {
	h := FromConfig(" https://wallet.example , https://admin.example ")(okHandler())

	tests := []struct {
		origin string
		want   string
	}{
		{"https://wallet.example", "https://wallet.example"},
		{"https://admin.example", "https://admin.example"},
		{"https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	h := Middleware()(next)

	req := httptest.NewRequest(http.MethodOptions, "/registrar", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if called {
		t.Error("preflight should not reach the next handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != allowHeaders {
		t.Errorf("Allow-Headers = %q, want %q", got, allowHeaders)
	}
}
