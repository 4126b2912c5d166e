// Package storage supplies world data to the route engine and persists
// computed routes. The world itself can come from the Postgres tables the
// map frontend writes or from a standalone world file; saved routes go to
// the TRAVEL_ROUTE table or, without a database, to process memory.
package storage

import (
	"context"
	"errors"

	"github.com/YahyaAsmara/orbis/models"
)

// ErrRouteNotFound reports a saved-route id with no stored route behind it.
var ErrRouteNotFound = errors.New("storage: saved route not found")

// RouteStore persists computed routes so users can replay trips later.
type RouteStore interface {
	SaveRoute(ctx context.Context, route models.SavedRoute) (models.SavedRoute, error)
	SavedRoutes(ctx context.Context) ([]models.SavedRoute, error)
	SavedRouteByID(ctx context.Context, id int64) (models.SavedRoute, error)
}
