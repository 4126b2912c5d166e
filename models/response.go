package models

import (
	"math"
	"time"
)

// ClosedArea reports one road that a route search refused to use, with the
// reason it was excluded.
type ClosedArea struct {
	RoadID   int64           `json:"roadID"`
	RoadName string          `json:"roadName,omitempty"`
	Reason   ExclusionReason `json:"reason"`
}

// RouteResult is the outcome of one route computation. Totals are kept at
// full precision internally; call Rounded before handing the result to a
// client. TotalTime is in hours, TotalCost in credits, TotalDistance in
// leagues.
type RouteResult struct {
	Path          []Coordinate `json:"path"`
	TotalDistance float64      `json:"totalDistance"`
	TotalTime     float64      `json:"totalTime"`
	TotalCost     float64      `json:"totalCost"`
	Directions    []string     `json:"directions"`
	ClosedAreas   []ClosedArea `json:"closedAreas,omitempty"`

	// Expanded counts the cells the search took off its frontier, summed
	// over legs. Instrumentation only, never serialized.
	Expanded int `json:"-"`
}

// Round2 rounds to two decimal places, the precision shown to clients.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Rounded returns a copy of the result with the totals rounded for display.
// The path, directions and closed areas are shared, not copied.
func (r RouteResult) Rounded() RouteResult {
	r.TotalDistance = Round2(r.TotalDistance)
	r.TotalTime = Round2(r.TotalTime)
	r.TotalCost = Round2(r.TotalCost)
	return r
}

// SavedRoute is a remembered trip, mirroring the TRAVEL_ROUTE rows of the
// world database.
type SavedRoute struct {
	ID            int64         `json:"routeID"`
	TransportType TransportType `json:"transportType"`
	StartCoord    Coordinate    `json:"startCellCoord"`
	EndCoord      Coordinate    `json:"endCellCoord"`
	Path          []Coordinate  `json:"path,omitempty"`
	TravelTime    float64       `json:"travelTime"`
	TotalDistance float64       `json:"totalDistance"`
	TotalCost     float64       `json:"totalCost"`
	Directions    []string      `json:"directions,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}
