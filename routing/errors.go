package routing

import (
	"errors"
	"fmt"

	"github.com/YahyaAsmara/orbis/models"
)

// ErrNotFound is the internal signal that a search exhausted its frontier
// without reaching the goal. It never crosses the planner boundary; callers
// of ComputePath see UnreachableGoalError instead.
var ErrNotFound = errors.New("routing: no path found")

// InvalidEndpointError reports a request coordinate that is not a cell of
// the snapshot. This is a user input problem, not a graph problem.
type InvalidEndpointError struct {
	Coord models.Coordinate
}

func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("routing: no location at %s", e.Coord)
}

// UnreachableGoalError reports that filtering and connectivity left no path
// between two waypoints. ClosedAreas lists the roads the search refused to
// use, so the caller can tell a filtered-off goal from one that was never
// connected.
type UnreachableGoalError struct {
	From        models.Coordinate
	To          models.Coordinate
	ClosedAreas []models.ClosedArea
}

func (e *UnreachableGoalError) Error() string {
	return fmt.Sprintf("routing: no reachable path from %s to %s (%d closed areas)",
		e.From, e.To, len(e.ClosedAreas))
}

// DataIntegrityError reports world data the engine refuses to build a
// snapshot from, such as a road whose endpoint is not a known cell.
type DataIntegrityError struct {
	RoadID int64
	Detail string
}

func (e *DataIntegrityError) Error() string {
	if e.RoadID != 0 {
		return fmt.Sprintf("routing: bad world data for road %d: %s", e.RoadID, e.Detail)
	}
	return fmt.Sprintf("routing: bad world data: %s", e.Detail)
}
