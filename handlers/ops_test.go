package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaAsmara/orbis/services"
)

func TestOpsHealthz(t *testing.T) {
	ops := NewOpsRouter(services.NewWorldService(scenarioSource()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	ops.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestOpsWorldDebugAndRefresh(t *testing.T) {
	ops := NewOpsRouter(services.NewWorldService(scenarioSource()))

	// The dump builds the snapshot on demand.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/debug/world", nil)
	ops.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var dump struct {
		Version   int64 `json:"version"`
		Locations int   `json:"locations"`
		Roads     int   `json:"roads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dump))
	assert.Equal(t, 3, dump.Locations)
	assert.Equal(t, 3, dump.Roads)

	// An explicit refresh swaps in a newer snapshot.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/debug/world/refresh", nil)
	ops.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed struct {
		Version int64 `json:"version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.Greater(t, refreshed.Version, dump.Version)
}

func TestOpsMetrics(t *testing.T) {
	ops := NewOpsRouter(services.NewWorldService(scenarioSource()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	ops.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "orbis_world_snapshot_rebuilds_total")
}
