package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsCounters(t *testing.T) {
	c := NewCollector("portal")

	c.ObserveStoreOperation("get", ResultOK, time.Now())
	c.ObserveStoreOperation("get", ResultOK, time.Now())
	c.ObserveStoreOperation("set", ResultError, time.Now())
	c.RecordDegradedRead("not_configured")
	c.RecordWriteFailure("validation")
	c.RecordHTTPRequest("GET", "/api/menu-items", 200, 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.StoreOperations.WithLabelValues("get", ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.StoreOperations.WithLabelValues("set", ResultError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.DegradedReads.WithLabelValues("not_configured")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.WriteFailures.WithLabelValues("validation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/menu-items", "200")))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("portal")
		NewCollector("portal")
	})
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveStoreOperation("get", ResultOK, time.Now())
		c.RecordDegradedRead("x")
		c.RecordWriteFailure("x")
		c.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	})
	assert.Nil(t, c.Registry())
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("portal")
	c.RecordDegradedRead("store_error")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `portal_degraded_reads_total{reason="store_error"} 1`)
}
