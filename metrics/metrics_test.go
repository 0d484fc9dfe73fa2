package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := NewNop()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/leagues/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leagues/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequests, "arena_http_request_duration_seconds"))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := NewNop()
	m.RatingUpdates.Add(2)
	m.MatchResults.WithLabelValues("league").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "arena_rating_updates_total 2")
	assert.Contains(t, string(body), `arena_match_results_total{kind="league"} 1`)
}
