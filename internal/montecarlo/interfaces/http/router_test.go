package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wyfcoding/montecarlo/pkg/metrics"
	"github.com/wyfcoding/montecarlo/pkg/ratelimit"
)

func TestNewRouter_ExposesMetrics(t *testing.T) {
	r := NewRouter(RouterOptions{
		Service: newService(),
		Metrics: metrics.New("montecarlo-test"),
	})

	post(r, `{"prc_actual": 100, "volat": 0.02, "num_dias": 10, "num_sims": 50}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "risk_http_requests_total") {
		t.Error("expected http request counter in exposition")
	}
}

func TestNewRouter_RateLimitsSimulateOnly(t *testing.T) {
	r := NewRouter(RouterOptions{
		Service: newService(),
		Limiter: ratelimit.NewLocalRateLimiter(),
		Limit:   ratelimit.PerSecond(1, 1),
	})

	body := `{"prc_actual": 100, "volat": 0.02, "num_dias": 5, "num_sims": 10}`
	if rec := post(r, body); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	if rec := post(r, body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sys/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health check must not be rate limited, got %d", rec.Code)
		}
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	r := NewRouter(RouterOptions{Service: newService()})

	req := httptest.NewRequest(http.MethodOptions, "/api/simulate", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://example.org" {
		t.Errorf("unexpected allow-origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
