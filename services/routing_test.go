package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
	"github.com/YahyaAsmara/orbis/storage"
)

func coordPtr(x, y int) *models.Coordinate {
	return &models.Coordinate{X: x, Y: y}
}

func newTestRoutingService(src *staticSource) *RoutingService {
	return NewRoutingService(NewWorldService(src), NewModeCatalog(nil), nil, storage.NewMemoryRouteStore())
}

func TestComputeRouteEndToEnd(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	res, err := rs.ComputeRoute(context.Background(), models.ComputeRouteRequest{
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(3, 0),
		TransportType: "car",
		TimeOfDay:     "08:00",
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Coordinate{{X: 0, Y: 0}, {X: 3, Y: 0}}, res.Path)
	assert.InDelta(t, 3.0, res.TotalDistance, 1e-9)
	assert.InDelta(t, 0.3, res.TotalTime, 1e-9)
	assert.InDelta(t, 6.0, res.TotalCost, 1e-9)
	require.Len(t, res.Directions, 1)
	assert.Equal(t, "Take Kings Road from (0, 0) to (3, 0)", res.Directions[0])
}

func TestComputeRouteAcceptsModeAliases(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	res, err := rs.ComputeRoute(context.Background(), models.ComputeRouteRequest{
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(3, 0),
		TransportType: "walk",
		TimeOfDay:     "12:00",
	})
	require.NoError(t, err)
	// 3 leagues at 1.5 leagues per hour.
	assert.InDelta(t, 2.0, res.TotalTime, 1e-9)
	assert.Zero(t, res.TotalCost)
}

func TestComputeRouteKeepsFullPrecision(t *testing.T) {
	src := twoCellSource()
	src.roads[0].Distance = 3.333
	rs := newTestRoutingService(src)

	res, err := rs.ComputeRoute(context.Background(), models.ComputeRouteRequest{
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(3, 0),
		TransportType: "car",
		TimeOfDay:     "08:00",
	})
	require.NoError(t, err)

	assert.InDelta(t, 3.333, res.TotalDistance, 1e-9)
	assert.InDelta(t, 0.3333, res.TotalTime, 1e-9)
	assert.Equal(t, 3.33, res.Rounded().TotalDistance)
}

func TestComputeRouteBadInput(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	cases := map[string]models.ComputeRouteRequest{
		"missing endpoints": {TransportType: "car", TimeOfDay: "08:00"},
		"unknown mode":      {StartCoord: coordPtr(0, 0), EndCoord: coordPtr(3, 0), TransportType: "airship", TimeOfDay: "08:00"},
		"bad time":          {StartCoord: coordPtr(0, 0), EndCoord: coordPtr(3, 0), TransportType: "car", TimeOfDay: "25:99"},
	}
	for name, wire := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rs.ComputeRoute(context.Background(), wire)
			var bad *BadInputError
			require.ErrorAs(t, err, &bad)
		})
	}
}

func TestComputeRouteUnknownCell(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	_, err := rs.ComputeRoute(context.Background(), models.ComputeRouteRequest{
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(9, 9),
		TransportType: "car",
		TimeOfDay:     "08:00",
	})

	var invalid *routing.InvalidEndpointError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.Coordinate{X: 9, Y: 9}, invalid.Coord)
}

func TestRoutingServiceModes(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())
	assert.Equal(t, models.BuiltinModes(), rs.Modes(context.Background()))
}

func TestSaveAndListRoutes(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	saved, err := rs.SaveRoute(context.Background(), models.SaveRouteRequest{
		TransportType: "bus",
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(3, 0),
		Path:          []models.Coordinate{{X: 0, Y: 0}, {X: 3, Y: 0}},
		TravelTime:    0.5,
		TotalDistance: 3,
		TotalCost:     1.5,
		Directions:    []string{"Take Kings Road from (0, 0) to (3, 0)"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, models.TransportBus, saved.TransportType)
	assert.False(t, saved.CreatedAt.IsZero())

	routes, err := rs.SavedRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)

	got, err := rs.SavedRouteByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Path, got.Path)

	_, err = rs.SavedRouteByID(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrRouteNotFound)
}

func TestSaveRouteRejectsUnknownMode(t *testing.T) {
	rs := newTestRoutingService(twoCellSource())

	_, err := rs.SaveRoute(context.Background(), models.SaveRouteRequest{
		TransportType: "airship",
		StartCoord:    coordPtr(0, 0),
		EndCoord:      coordPtr(3, 0),
	})
	var bad *BadInputError
	require.ErrorAs(t, err, &bad)
}
