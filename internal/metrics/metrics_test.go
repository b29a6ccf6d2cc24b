package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	m := New()

	m.RecordMutation("START")
	m.RecordMutation("START")
	m.RecordMutation("CORRECTION")
	m.RecordAuthDenied("apply_correction")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("START")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("CORRECTION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authDenied.WithLabelValues("apply_correction")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/sessions/:id", "204")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "compressor_http_requests_total"))
}

func TestTrackLedger(t *testing.T) {
	m := New()
	hours := 12.5
	m.TrackLedger(func() float64 { return hours })

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var got float64
	found := false
	for _, f := range families {
		if f.GetName() == "compressor_ledger_total_hours" {
			got = f.GetMetric()[0].GetGauge().GetValue()
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, 12.5, got)
}
