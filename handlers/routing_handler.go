// Package handlers exposes the engine over HTTP. The public API is served
// by gin; the operational surface lives on its own listener, see ops.go.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
	"github.com/YahyaAsmara/orbis/services"
	"github.com/YahyaAsmara/orbis/storage"
)

// RouteHandler serves route computation and saved-route endpoints.
type RouteHandler struct {
	routing *services.RoutingService
}

func NewRouteHandler(rs *services.RoutingService) *RouteHandler {
	return &RouteHandler{routing: rs}
}

func (h *RouteHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/routes")
	api.POST("/compute", h.ComputeRoute)
	api.GET("/modes", h.ListModes)
	api.POST("/save", h.SaveRoute)
	api.GET("/saved", h.ListSavedRoutes)
	api.GET("/saved/:id/geojson", h.SavedRouteGeoJSON)
}

// ComputeRoute handles POST /api/routes/compute. Totals are rounded to two
// decimals at this boundary only; the engine works at full precision.
func (h *RouteHandler) ComputeRoute(c *gin.Context) {
	var wire models.ComputeRouteRequest
	if err := c.ShouldBindJSON(&wire); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.routing.ComputeRoute(c.Request.Context(), wire)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Rounded())
}

// ListModes handles GET /api/routes/modes.
func (h *RouteHandler) ListModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": h.routing.Modes(c.Request.Context())})
}

// SaveRoute handles POST /api/routes/save.
func (h *RouteHandler) SaveRoute(c *gin.Context) {
	var wire models.SaveRouteRequest
	if err := c.ShouldBindJSON(&wire); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.routing.SaveRoute(c.Request.Context(), wire)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListSavedRoutes handles GET /api/routes/saved.
func (h *RouteHandler) ListSavedRoutes(c *gin.Context) {
	routes, err := h.routing.SavedRoutes(c.Request.Context())
	if err != nil {
		logger.L().Error("saved_routes_list_error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list saved routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// SavedRouteGeoJSON handles GET /api/routes/saved/:id/geojson, rendering a
// stored route as a FeatureCollection for map frontends.
func (h *RouteHandler) SavedRouteGeoJSON(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route id must be an integer"})
		return
	}

	route, err := h.routing.SavedRouteByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrRouteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no saved route with id %d", id)})
		return
	}
	if err != nil {
		logger.L().Error("saved_route_load_error", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load saved route"})
		return
	}
	if len(route.Path) < 2 {
		c.JSON(http.StatusUnprocessableEntity,
			gin.H{"error": fmt.Sprintf("saved route %d has no stored path", id)})
		return
	}

	c.JSON(http.StatusOK, routeFeatures(route))
}

// routeFeatures converts a saved route into GeoJSON: the path as a
// LineString plus start and end markers.
func routeFeatures(route models.SavedRoute) *geojson.FeatureCollection {
	line := make([][]float64, len(route.Path))
	for i, p := range route.Path {
		line[i] = []float64{float64(p.X), float64(p.Y)}
	}

	path := geojson.NewFeature(geojson.NewLineStringGeometry(line))
	path.SetProperty("routeID", route.ID)
	path.SetProperty("transportType", string(route.TransportType))
	path.SetProperty("travelTime", route.TravelTime)
	path.SetProperty("totalDistance", route.TotalDistance)
	path.SetProperty("totalCost", route.TotalCost)

	start := geojson.NewFeature(geojson.NewPointGeometry(
		[]float64{float64(route.StartCoord.X), float64(route.StartCoord.Y)}))
	start.SetProperty("role", "start")
	end := geojson.NewFeature(geojson.NewPointGeometry(
		[]float64{float64(route.EndCoord.X), float64(route.EndCoord.Y)}))
	end.SetProperty("role", "end")

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(path)
	fc.AddFeature(start)
	fc.AddFeature(end)
	return fc
}

// writeRouteError maps engine errors onto HTTP statuses. Unreachable goals
// carry their closed areas in the body so the client can explain the
// failure.
func writeRouteError(c *gin.Context, err error) {
	var badInput *services.BadInputError
	if errors.As(err, &badInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": badInput.Error()})
		return
	}
	var invalid *routing.InvalidEndpointError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
		return
	}
	var unreachable *routing.UnreachableGoalError
	if errors.As(err, &unreachable) {
		closed := unreachable.ClosedAreas
		if closed == nil {
			closed = []models.ClosedArea{}
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       unreachable.Error(),
			"closedAreas": closed,
		})
		return
	}
	var integrity *routing.DataIntegrityError
	if errors.As(err, &integrity) {
		logger.L().Error("world_data_integrity", "err", integrity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "world data is inconsistent"})
		return
	}
	logger.L().Error("route_request_error", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
