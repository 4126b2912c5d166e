package models

// RouteRequest is the resolved form the engine works with: coordinates
// verified as parseable, the mode looked up in the catalog and the time of
// day already normalized. One time of day applies to the whole request; the
// engine does not advance the clock leg by leg.
type RouteRequest struct {
	Start     Coordinate
	End       Coordinate
	PitStops  []Coordinate
	Mode      TransportMode
	TimeOfDay TimeOfDay
}

// ComputeRouteRequest is the wire shape of a route computation call.
// Coordinates are pointers so that a missing field is told apart from the
// legitimate origin cell [0, 0].
type ComputeRouteRequest struct {
	StartCoord    *Coordinate  `json:"startCoord" binding:"required"`
	EndCoord      *Coordinate  `json:"endCoord" binding:"required"`
	PitStops      []Coordinate `json:"pitStops,omitempty"`
	TransportType string       `json:"transportType" binding:"required"`
	TimeOfDay     string       `json:"timeOfDay" binding:"required"`
}

// SaveRouteRequest persists a previously computed route.
type SaveRouteRequest struct {
	TransportType string       `json:"transportType" binding:"required"`
	StartCoord    *Coordinate  `json:"startCellCoord" binding:"required"`
	EndCoord      *Coordinate  `json:"endCellCoord" binding:"required"`
	Path          []Coordinate `json:"path,omitempty"`
	TravelTime    float64      `json:"travelTime"`
	TotalDistance float64      `json:"totalDistance"`
	TotalCost     float64      `json:"totalCost"`
	Directions    []string     `json:"directions,omitempty"`
}
