// Package services binds the route engine to its collaborators: the world
// source, the transport mode catalog, the result cache and the saved-route
// store.
package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/metrics"
	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
)

// GraphSource supplies the world's current locations and roads. The
// Postgres store and the world file both implement it.
type GraphSource interface {
	CurrentLocations(ctx context.Context) ([]models.Location, error)
	CurrentRoads(ctx context.Context) ([]models.Road, error)
}

// WorldService owns the active graph snapshot. Readers take the pointer
// once per request and keep it for the whole computation; a rebuild swaps
// the pointer without touching snapshots already handed out, so no request
// ever sees a half-updated world.
type WorldService struct {
	source GraphSource

	// rebuildMu serializes Refresh so concurrent invalidations do not
	// build the same snapshot twice. Readers never take it.
	rebuildMu sync.Mutex
	active    atomic.Pointer[routing.GraphSnapshot]
}

func NewWorldService(source GraphSource) *WorldService {
	return &WorldService{source: source}
}

// Refresh pulls the world from the source, builds a fresh snapshot and
// swaps it in. On failure the previous snapshot stays active.
func (ws *WorldService) Refresh(ctx context.Context) (*routing.GraphSnapshot, error) {
	ws.rebuildMu.Lock()
	defer ws.rebuildMu.Unlock()

	locations, err := ws.source.CurrentLocations(ctx)
	if err != nil {
		return nil, err
	}
	roads, err := ws.source.CurrentRoads(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := routing.BuildSnapshot(locations, roads)
	if err != nil {
		return nil, err
	}
	for _, a := range snap.Anomalies() {
		logger.L().Warn("world_road_rejected",
			"roadID", a.RoadID,
			"roadName", a.RoadName,
			"detail", a.Detail,
		)
	}

	ws.active.Store(snap)
	metrics.SnapshotRebuilds.Inc()
	metrics.SnapshotNodes.Set(float64(snap.NodeCount()))
	metrics.SnapshotEdges.Set(float64(snap.EdgeCount()))
	metrics.SnapshotAnomalies.Add(float64(len(snap.Anomalies())))
	logger.L().Info("world_snapshot_ready",
		"version", snap.Version(),
		"locations", snap.NodeCount(),
		"roads", snap.EdgeCount(),
		"anomalies", len(snap.Anomalies()),
	)
	return snap, nil
}

// Snapshot returns the active snapshot, building it on first use.
func (ws *WorldService) Snapshot(ctx context.Context) (*routing.GraphSnapshot, error) {
	if snap := ws.active.Load(); snap != nil {
		return snap, nil
	}
	return ws.Refresh(ctx)
}

// Invalidate drops the active snapshot so the next request rebuilds from
// the source. In-flight computations keep the snapshot they already hold.
func (ws *WorldService) Invalidate() {
	ws.active.Store(nil)
}
