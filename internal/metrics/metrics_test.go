package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("GET /events", 200, 10*time.Millisecond)
	m.ObserveRequest("GET /events", 200, 20*time.Millisecond)
	m.Hit("events")
	m.Miss("events")
	m.Miss("events")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /events", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("events", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("events", "miss")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveBackend("GET /admin/events", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `edulife_admin_backend_request_duration_seconds_count{endpoint="GET /admin/events",status="200"} 1`)
}

func TestNewIsRepeatable(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
