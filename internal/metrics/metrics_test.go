package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRatesFetch(t *testing.T) {
	m := New()
	m.RecordRatesFetch("live")
	m.RecordRatesFetch("fallback")
	m.RecordRatesFetch("fallback")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ratesFetchTotal.WithLabelValues("live")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ratesFetchTotal.WithLabelValues("fallback")))
}

func TestRequestFinished_UnmatchedPath(t *testing.T) {
	m := New()
	m.RequestStarted()
	m.RequestFinished("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestInFlight))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RequestStarted()
		m.RequestFinished("GET", "/x", 200, time.Second)
		m.RecordRatesFetch("live")
		m.RecordRecognition("pay", "recognized", time.Second)
		m.RecordQuote("ready")
		m.RecordDocument("pdf", "ok")
		m.SetActiveSessions(3)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordQuote("ready")
	m.SetActiveSessions(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `quotegen_quotes_total{outcome="ready"} 1`))
	assert.True(t, strings.Contains(string(body), "quotegen_active_sessions 2"))
}
