package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/metrics"
	"github.com/YahyaAsmara/orbis/services"
)

// NewOpsRouter builds the operational surface served on its own listener:
// health, Prometheus metrics and world debugging. Kept off the public API
// port so it is never exposed through the frontend proxy.
func NewOpsRouter(world *services.WorldService) http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(logger.AccessMiddleware(logger.L())))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/debug/world", func(w http.ResponseWriter, req *http.Request) {
		snap, err := world.Snapshot(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"version":   snap.Version(),
			"locations": snap.NodeCount(),
			"roads":     snap.EdgeCount(),
			"anomalies": snap.Anomalies(),
		})
	}).Methods("GET")

	// Explicit invalidation signal: rebuild the snapshot from the source
	// even if the change detector has not noticed an edit yet.
	r.HandleFunc("/debug/world/refresh", func(w http.ResponseWriter, req *http.Request) {
		snap, err := world.Refresh(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"version":   snap.Version(),
			"locations": snap.NodeCount(),
			"roads":     snap.EdgeCount(),
		})
	}).Methods("POST")

	return r
}
