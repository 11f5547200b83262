package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsGenerationAndDebits(t *testing.T) {
	c := NewCollector()

	c.RecordGeneration("gemini", "text", OutcomeSuccess, time.Second)
	c.RecordGeneration("gemini", "text", OutcomeSuccess, time.Second)
	c.RecordGeneration("gemini", "image", OutcomeFailure, time.Second)
	c.RecordDebit("text_generation", 2)
	c.RecordDebit("text_generation", 3)
	c.RecordRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.generationsTotal.WithLabelValues("gemini", "text", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.generationsTotal.WithLabelValues("gemini", "image", OutcomeFailure)))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.creditsDebited.WithLabelValues("text_generation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited))
}

func TestCollector_MiddlewareUsesRoutePattern(t *testing.T) {
	c := NewCollector()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Post("/admin/keys/{id}/credit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Method(http.MethodGet, "/metrics", c.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/keys/"+id+"/credit", nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(
		c.httpRequestsTotal.WithLabelValues("/admin/keys/{id}/credit", http.MethodPost, "201")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "creator_http_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
