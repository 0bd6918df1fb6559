package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/garage-inventory/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	rec := serve(handler.NewHealthHandler(), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
}

// TestRoutes_UnconfiguredServicesAreNotMounted keeps a health-only server
// from exposing routes it cannot serve.
func TestRoutes_UnconfiguredServicesAreNotMounted(t *testing.T) {
	for _, path := range []string{"/garages", "/transfer", "/catalog/brands", "/metrics"} {
		rec := serve(handler.NewHealthHandler(), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("garage_transfer_conflicts_total 0\n"))
	})
	srv := handler.NewServer(nil, nil, nil, metrics)

	rec := serve(srv, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "garage_transfer_conflicts_total")
}
