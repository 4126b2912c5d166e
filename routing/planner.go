package routing

import (
	"errors"
	"fmt"

	"github.com/YahyaAsmara/orbis/models"
)

// ComputePath runs a whole request against the snapshot: one search per leg
// through the pit stops, direction text per traversed road, per-leg cost
// totals and the merged closed-areas report.
//
// Totals are the sum of each leg's summary rather than a re-summary of the
// concatenated path, so a leg shown on its own always agrees with its share
// of the whole. If any leg cannot be completed the request fails with
// UnreachableGoalError carrying the closed areas seen so far; no partial
// route is returned.
func ComputePath(snap *GraphSnapshot, req models.RouteRequest) (models.RouteResult, error) {
	waypoints := make([]models.Coordinate, 0, len(req.PitStops)+2)
	waypoints = append(waypoints, req.Start)
	waypoints = append(waypoints, req.PitStops...)
	waypoints = append(waypoints, req.End)

	for _, wp := range waypoints {
		if !snap.Contains(wp) {
			return models.RouteResult{}, &InvalidEndpointError{Coord: wp}
		}
	}

	filter := NewEdgeFilter(req.Mode.Type, req.TimeOfDay)
	exclusions := NewExclusionLog()

	var fullPath []models.Coordinate
	var directions []string
	var totals Summary
	expanded := 0

	for i := 0; i+1 < len(waypoints); i++ {
		from, to := waypoints[i], waypoints[i+1]

		leg, err := Search(snap, from, to, filter, EdgeWeight, exclusions)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return models.RouteResult{}, &UnreachableGoalError{
					From:        from,
					To:          to,
					ClosedAreas: exclusions.Areas(),
				}
			}
			return models.RouteResult{}, err
		}

		if len(fullPath) == 0 {
			fullPath = append(fullPath, leg.Path...)
		} else {
			// The leg starts on the waypoint the previous leg ended on.
			fullPath = append(fullPath, leg.Path[1:]...)
		}
		directions = append(directions, legDirections(snap, leg.Path, filter)...)
		totals.Add(Summarize(leg.Distance, req.Mode))
		expanded += leg.Expanded
	}

	return models.RouteResult{
		Path:          fullPath,
		TotalDistance: totals.Distance,
		TotalTime:     totals.Time,
		TotalCost:     totals.Cost,
		Directions:    directions,
		ClosedAreas:   exclusions.Areas(),
		Expanded:      expanded,
	}, nil
}

// legDirections writes one instruction per traversed road, naming the road
// the search actually picked between each pair of cells.
func legDirections(snap *GraphSnapshot, path []models.Coordinate, filter EdgeFilter) []string {
	if len(path) < 2 {
		return nil
	}
	out := make([]string, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		name := ""
		if e, ok := snap.cheapestTraversable(from, to, filter, EdgeWeight); ok {
			name = e.Name
		}
		if name == "" {
			out = append(out, fmt.Sprintf("Take the unnamed road from %s to %s", from, to))
		} else {
			out = append(out, fmt.Sprintf("Take %s from %s to %s", name, from, to))
		}
	}
	return out
}
