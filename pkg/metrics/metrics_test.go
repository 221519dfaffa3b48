package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSimulation(t *testing.T) {
	m := New("test")

	m.RecordSimulation(OutcomeSuccess, 1000, 11000, 20*time.Millisecond)
	m.RecordSimulation(OutcomeInvalid, 5001, 0, time.Millisecond)

	if got := testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("expected 1 successful simulation, got %v", got)
	}
	if got := testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Errorf("expected 1 invalid simulation, got %v", got)
	}
	if got := testutil.ToFloat64(m.PathsSimulatedTotal); got != 1000 {
		t.Errorf("expected 1000 paths, got %v", got)
	}
}

func TestRecordEventPublished(t *testing.T) {
	m := New("test")
	m.RecordEventPublished(nil)
	m.RecordEventPublished(errors.New("broker down"))

	if got := testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("expected 1 published event, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(OutcomeError)); got != 1 {
		t.Errorf("expected 1 failed event, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New("test")
	m.RecordHTTPRequest(http.MethodPost, "/api/simulate", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "risk_http_requests_total") {
		t.Errorf("expected http request counter in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, `path="/api/simulate"`) {
		t.Errorf("expected path label in exposition")
	}
}
