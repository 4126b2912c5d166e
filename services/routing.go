package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/metrics"
	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
	"github.com/YahyaAsmara/orbis/storage"
)

// BadInputError marks a request the engine never ran: missing fields,
// an unknown transport type, an unparseable time of day.
type BadInputError struct {
	Err error
}

func (e *BadInputError) Error() string { return e.Err.Error() }
func (e *BadInputError) Unwrap() error { return e.Err }

func badInput(format string, args ...interface{}) *BadInputError {
	return &BadInputError{Err: fmt.Errorf(format, args...)}
}

// RoutingService answers route computations over the active world
// snapshot and keeps users' saved trips. The cache may be nil, which
// disables result memoization.
type RoutingService struct {
	world  *WorldService
	modes  *ModeCatalog
	cache  *storage.RouteCache
	routes storage.RouteStore
}

func NewRoutingService(world *WorldService, modes *ModeCatalog, cache *storage.RouteCache, routes storage.RouteStore) *RoutingService {
	return &RoutingService{world: world, modes: modes, cache: cache, routes: routes}
}

// ComputeRoute resolves the wire request against the mode catalog, runs
// the planner over the active snapshot and returns the result at full
// precision; callers round at the presentation boundary. Results are
// memoized per snapshot version, which is sound because the search is
// deterministic.
func (rs *RoutingService) ComputeRoute(ctx context.Context, wire models.ComputeRouteRequest) (models.RouteResult, error) {
	req, err := rs.resolveRequest(ctx, wire)
	if err != nil {
		metrics.RouteRequests.WithLabelValues(wire.TransportType, "bad_request").Inc()
		return models.RouteResult{}, err
	}
	modeLabel := string(req.Mode.Type)

	snap, err := rs.world.Snapshot(ctx)
	if err != nil {
		metrics.RouteRequests.WithLabelValues(modeLabel, statusLabel(err)).Inc()
		return models.RouteResult{}, err
	}

	if rs.cache != nil {
		if res, ok := rs.cache.Get(ctx, snap.Version(), req); ok {
			metrics.CacheEvents.WithLabelValues("hit").Inc()
			metrics.RouteRequests.WithLabelValues(modeLabel, "ok").Inc()
			return res, nil
		}
		metrics.CacheEvents.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	res, err := routing.ComputePath(snap, req)
	metrics.RouteDuration.WithLabelValues(modeLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RouteRequests.WithLabelValues(modeLabel, statusLabel(err)).Inc()
		return models.RouteResult{}, err
	}

	metrics.RouteRequests.WithLabelValues(modeLabel, "ok").Inc()
	metrics.SearchExpansions.Observe(float64(res.Expanded))
	logger.L().Debug("route_computed",
		"mode", modeLabel,
		"legs", len(req.PitStops)+1,
		"cells", len(res.Path),
		"distance", res.TotalDistance,
		"expanded", res.Expanded,
		"closed_areas", len(res.ClosedAreas),
	)

	rs.cache.Put(ctx, snap.Version(), req, res)
	return res, nil
}

// resolveRequest turns the wire shape into the engine's request: parsed
// coordinates, the mode looked up in the catalog, the time normalized.
func (rs *RoutingService) resolveRequest(ctx context.Context, wire models.ComputeRouteRequest) (models.RouteRequest, error) {
	if wire.StartCoord == nil || wire.EndCoord == nil {
		return models.RouteRequest{}, badInput("startCoord and endCoord are required")
	}
	modeType, err := models.ParseTransportType(wire.TransportType)
	if err != nil {
		return models.RouteRequest{}, &BadInputError{Err: err}
	}
	mode, err := rs.modes.ModeByType(ctx, modeType)
	if err != nil {
		return models.RouteRequest{}, &BadInputError{Err: err}
	}
	timeOfDay, err := models.ParseTimeOfDay(wire.TimeOfDay)
	if err != nil {
		return models.RouteRequest{}, &BadInputError{Err: err}
	}
	return models.RouteRequest{
		Start:     *wire.StartCoord,
		End:       *wire.EndCoord,
		PitStops:  wire.PitStops,
		Mode:      mode,
		TimeOfDay: timeOfDay,
	}, nil
}

// Modes returns the catalog the frontend offers when building a request.
func (rs *RoutingService) Modes(ctx context.Context) []models.TransportMode {
	return rs.modes.All(ctx)
}

// SaveRoute persists a trip the user wants to replay later.
func (rs *RoutingService) SaveRoute(ctx context.Context, wire models.SaveRouteRequest) (models.SavedRoute, error) {
	if wire.StartCoord == nil || wire.EndCoord == nil {
		return models.SavedRoute{}, badInput("startCellCoord and endCellCoord are required")
	}
	modeType, err := models.ParseTransportType(wire.TransportType)
	if err != nil {
		return models.SavedRoute{}, &BadInputError{Err: err}
	}

	saved, err := rs.routes.SaveRoute(ctx, models.SavedRoute{
		TransportType: modeType,
		StartCoord:    *wire.StartCoord,
		EndCoord:      *wire.EndCoord,
		Path:          wire.Path,
		TravelTime:    wire.TravelTime,
		TotalDistance: wire.TotalDistance,
		TotalCost:     wire.TotalCost,
		Directions:    wire.Directions,
	})
	if err != nil {
		return models.SavedRoute{}, err
	}
	logger.L().Info("route_saved", "routeID", saved.ID, "mode", modeType)
	return saved, nil
}

// SavedRoutes lists every stored trip.
func (rs *RoutingService) SavedRoutes(ctx context.Context) ([]models.SavedRoute, error) {
	return rs.routes.SavedRoutes(ctx)
}

// SavedRouteByID returns one stored trip, or storage.ErrRouteNotFound.
func (rs *RoutingService) SavedRouteByID(ctx context.Context, id int64) (models.SavedRoute, error) {
	return rs.routes.SavedRouteByID(ctx, id)
}

// statusLabel names an error for the request counter.
func statusLabel(err error) string {
	var invalid *routing.InvalidEndpointError
	var unreachable *routing.UnreachableGoalError
	var integrity *routing.DataIntegrityError
	switch {
	case errors.As(err, &invalid):
		return "invalid_endpoint"
	case errors.As(err, &unreachable):
		return "unreachable"
	case errors.As(err, &integrity):
		return "integrity"
	default:
		return "error"
	}
}
