package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
)

func TestHTTPMiddleware_CountsByStatusClass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics("test", nil, "")

	r := gin.New()
	r.Use(m.HTTPMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/ok", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ok", "2xx")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "5xx")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.HTTPRequestsInFlight), 0)
}

func TestCronJob(t *testing.T) {
	m := metrics.NewMetrics("test", nil, "")

	called := false
	m.CronJob("sweep", func() { called = true })

	assert.True(t, called)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CronRuns.WithLabelValues("sweep")), 0)
}

func TestCacheCollector(t *testing.T) {
	m := metrics.NewMetrics("test", nil, "")

	m.RecordCacheOperation("get", "hit", 3*time.Millisecond)
	m.RecordCacheOperation("get", "hit", time.Millisecond)
	m.RecordCacheOperation("get", "error", time.Millisecond)
	m.RecordTechnicalError("redis_get_error", "warning")
	m.RecordBusinessError("token_expired")

	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheOperations.WithLabelValues("get", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheOperations.WithLabelValues("get", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TechnicalErrors.WithLabelValues("redis_get_error", "warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("token_expired", "info")), 0)
}

func TestRecordVerification_RejectionsAreBusinessErrors(t *testing.T) {
	m := metrics.NewMetrics("test", nil, "")

	for _, outcome := range []string{"verified", "token_expired", "invalid_or_expired_token", "verification_failed"} {
		m.RecordVerification(outcome)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("token_expired", "info")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("invalid_or_expired_token", "info")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("verified", "info")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.BusinessErrors.WithLabelValues("verification_failed", "info")), 0)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := metrics.NewMetrics("test", nil, "")
	m.RecordVerification("verified")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_digest_verifications_total{outcome="verified"} 1`))
}
