package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
	"github.com/YahyaAsmara/orbis/services"
)

// WorldHandler serves read-only views of the active world snapshot.
type WorldHandler struct {
	world *services.WorldService
}

func NewWorldHandler(ws *services.WorldService) *WorldHandler {
	return &WorldHandler{world: ws}
}

func (h *WorldHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/world")
	api.GET("/graph", h.WorldGraph)
	api.GET("/locations", h.ListLocations)
}

type graphEdge struct {
	To       models.Coordinate `json:"to"`
	RoadID   int64             `json:"roadID"`
	RoadName string            `json:"roadName,omitempty"`
	Distance float64           `json:"distance"`
	State    models.RoadState  `json:"state"`
}

type worldGraphResponse struct {
	Version   int64                  `json:"version"`
	Adjacency map[string][]graphEdge `json:"adjacency"`
	Locations []models.Location      `json:"locations"`
	Roads     []models.Road          `json:"roads"`
	Anomalies []routing.Anomaly      `json:"anomalies,omitempty"`
}

// WorldGraph handles GET /api/world/graph. The adjacency map is keyed by
// the cell's "(x, y)" text so frontends can join it against location
// coordinates without parsing nested arrays.
func (h *WorldHandler) WorldGraph(c *gin.Context) {
	snap, err := h.world.Snapshot(c.Request.Context())
	if err != nil {
		writeRouteError(c, err)
		return
	}

	resp := worldGraphResponse{
		Version:   snap.Version(),
		Adjacency: make(map[string][]graphEdge, snap.NodeCount()),
		Locations: snap.Locations(),
		Roads:     snap.Roads(),
		Anomalies: snap.Anomalies(),
	}
	for _, loc := range resp.Locations {
		edges := snap.Edges(loc.Coord)
		out := make([]graphEdge, len(edges))
		for i, e := range edges {
			out[i] = graphEdge{
				To:       e.To,
				RoadID:   e.RoadID,
				RoadName: e.Name,
				Distance: e.Distance,
				State:    e.State,
			}
		}
		resp.Adjacency[loc.Coord.String()] = out
	}

	c.JSON(http.StatusOK, resp)
}

// ListLocations handles GET /api/world/locations.
func (h *WorldHandler) ListLocations(c *gin.Context) {
	snap, err := h.world.Snapshot(c.Request.Context())
	if err != nil {
		writeRouteError(c, err)
		return
	}
	locs := snap.Locations()
	c.JSON(http.StatusOK, gin.H{"locations": locs, "count": len(locs)})
}
