package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/services"
	"github.com/YahyaAsmara/orbis/storage"
)

type stubSource struct {
	locations []models.Location
	roads     []models.Road
}

func (s *stubSource) CurrentLocations(context.Context) ([]models.Location, error) {
	return s.locations, nil
}

func (s *stubSource) CurrentRoads(context.Context) ([]models.Road, error) {
	return s.roads, nil
}

func cell(x, y int) models.Coordinate { return models.Coordinate{X: x, Y: y} }

// scenarioSource is the three-settlement world with the blocked ferry road,
// the same shape the planner tests use.
func scenarioSource() *stubSource {
	return &stubSource{
		locations: []models.Location{
			{ID: 1, Coord: cell(0, 0), Name: "Aldgate", Category: models.CategoryHotel},
			{ID: 2, Coord: cell(8, 8), Name: "Briar Park", Category: models.CategoryPark, Public: true},
			{ID: 3, Coord: cell(-10, 14), Name: "Cinder Falls", Category: models.CategoryLandmark, Public: true},
		},
		roads: []models.Road{
			{ID: 101, From: cell(0, 0), To: cell(8, 8), Name: "Kings Road", Distance: 11.3},
			{ID: 102, From: cell(8, 8), To: cell(-10, 14), Name: "North Pass", Distance: 19},
			{ID: 103, From: cell(0, 0), To: cell(-10, 14), Name: "Old Ferry Road", Distance: 15.2, State: models.RoadBlocked},
		},
	}
}

func newEngine(t *testing.T, src *stubSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	world := services.NewWorldService(src)
	routingService := services.NewRoutingService(world, services.NewModeCatalog(nil), nil, storage.NewMemoryRouteStore())

	r := gin.New()
	NewRouteHandler(routingService).RegisterRoutes(r)
	NewWorldHandler(world).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestComputeRouteEndpoint(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "POST", "/api/routes/compute", gin.H{
		"startCoord":    []int{0, 0},
		"endCoord":      []int{-10, 14},
		"transportType": "car",
		"timeOfDay":     "08:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Path          []models.Coordinate `json:"path"`
		TotalDistance float64             `json:"totalDistance"`
		TotalTime     float64             `json:"totalTime"`
		TotalCost     float64             `json:"totalCost"`
		Directions    []string            `json:"directions"`
		ClosedAreas   []models.ClosedArea `json:"closedAreas"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, []models.Coordinate{cell(0, 0), cell(8, 8), cell(-10, 14)}, res.Path)
	assert.InDelta(t, 30.3, res.TotalDistance, 1e-9)
	assert.InDelta(t, 3.03, res.TotalTime, 1e-9)
	assert.InDelta(t, 60.6, res.TotalCost, 1e-9)
	assert.Equal(t, []string{
		"Take Kings Road from (0, 0) to (8, 8)",
		"Take North Pass from (8, 8) to (-10, 14)",
	}, res.Directions)
	require.Len(t, res.ClosedAreas, 1)
	assert.Equal(t, int64(103), res.ClosedAreas[0].RoadID)
}

func TestComputeRouteEndpointValidation(t *testing.T) {
	r := newEngine(t, scenarioSource())

	// Binding failure: required fields missing.
	w := doJSON(t, r, "POST", "/api/routes/compute", gin.H{"transportType": "car"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown transport type passes binding but fails resolution.
	w = doJSON(t, r, "POST", "/api/routes/compute", gin.H{
		"startCoord":    []int{0, 0},
		"endCoord":      []int{8, 8},
		"transportType": "airship",
		"timeOfDay":     "08:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "airship")

	// A coordinate that is not a cell of the world.
	w = doJSON(t, r, "POST", "/api/routes/compute", gin.H{
		"startCoord":    []int{0, 0},
		"endCoord":      []int{5, 5},
		"transportType": "car",
		"timeOfDay":     "08:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "(5, 5)")
}

func TestComputeRouteEndpointUnreachable(t *testing.T) {
	src := &stubSource{
		locations: []models.Location{
			{ID: 1, Coord: cell(0, 0), Name: "Aldgate", Category: models.CategoryPark, Public: true},
			{ID: 2, Coord: cell(1, 0), Name: "Briar Park", Category: models.CategoryPark, Public: true},
		},
		roads: []models.Road{
			{ID: 1, From: cell(0, 0), To: cell(1, 0), Name: "Only Way", Distance: 1, State: models.RoadBlocked},
		},
	}
	r := newEngine(t, src)

	w := doJSON(t, r, "POST", "/api/routes/compute", gin.H{
		"startCoord":    []int{0, 0},
		"endCoord":      []int{1, 0},
		"transportType": "car",
		"timeOfDay":     "08:00",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error       string              `json:"error"`
		ClosedAreas []models.ClosedArea `json:"closedAreas"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.ClosedAreas, 1)
	assert.Equal(t, int64(1), body.ClosedAreas[0].RoadID)
	assert.Equal(t, models.ReasonBlocked, body.ClosedAreas[0].Reason)
}

func TestListModesEndpoint(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "GET", "/api/routes/modes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Modes []models.TransportMode `json:"modes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.BuiltinModes(), body.Modes)
}

func TestSaveListAndGeoJSON(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "POST", "/api/routes/save", gin.H{
		"transportType":  "car",
		"startCellCoord": []int{0, 0},
		"endCellCoord":   []int{-10, 14},
		"path":           [][]int{{0, 0}, {8, 8}, {-10, 14}},
		"travelTime":     3.03,
		"totalDistance":  30.3,
		"totalCost":      60.6,
		"directions":     []string{"Take Kings Road from (0, 0) to (8, 8)"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved models.SavedRoute
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, int64(1), saved.ID)

	w = doJSON(t, r, "GET", "/api/routes/saved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Routes []models.SavedRoute `json:"routes"`
		Count  int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
	require.Len(t, listing.Routes, 1)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/routes/saved/%d/geojson", saved.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, "car", fc.Features[0].Properties["transportType"])

	w = doJSON(t, r, "GET", "/api/routes/saved/99/geojson", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavedRouteGeoJSONWithoutPath(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "POST", "/api/routes/save", gin.H{
		"transportType":  "bus",
		"startCellCoord": []int{0, 0},
		"endCellCoord":   []int{8, 8},
		"travelTime":     1.88,
		"totalDistance":  11.3,
		"totalCost":      5.65,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/routes/saved/1/geojson", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWorldGraphEndpoint(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "GET", "/api/world/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Version   int64 `json:"version"`
		Adjacency map[string][]struct {
			To       models.Coordinate `json:"to"`
			RoadID   int64             `json:"roadID"`
			Distance float64           `json:"distance"`
			State    models.RoadState  `json:"state"`
		} `json:"adjacency"`
		Locations []models.Location `json:"locations"`
		Roads     []models.Road     `json:"roads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Positive(t, body.Version)
	assert.Len(t, body.Locations, 3)
	assert.Len(t, body.Roads, 3)

	aldgate, ok := body.Adjacency["(0, 0)"]
	require.True(t, ok, "adjacency should be keyed by the cell's coordinate text")
	require.Len(t, aldgate, 2)
	// Sorted by destination coordinate: the blocked ferry road first.
	assert.Equal(t, cell(-10, 14), aldgate[0].To)
	assert.Equal(t, models.RoadBlocked, aldgate[0].State)
	assert.Equal(t, cell(8, 8), aldgate[1].To)
	assert.Equal(t, int64(101), aldgate[1].RoadID)
}

func TestWorldLocationsEndpoint(t *testing.T) {
	r := newEngine(t, scenarioSource())

	w := doJSON(t, r, "GET", "/api/world/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Locations []models.Location `json:"locations"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Locations, 3)
	// Ordered by coordinate, so Cinder Falls at (-10, 14) leads.
	assert.Equal(t, "Cinder Falls", body.Locations[0].Name)
}
