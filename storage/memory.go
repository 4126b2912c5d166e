package storage

import (
	"context"
	"sync"
	"time"

	"github.com/YahyaAsmara/orbis/models"
)

// MemoryRouteStore keeps saved routes in process memory. Used when the
// world is loaded from a file and no database is configured.
type MemoryRouteStore struct {
	mu     sync.Mutex
	nextID int64
	routes []models.SavedRoute
}

func NewMemoryRouteStore() *MemoryRouteStore {
	return &MemoryRouteStore{nextID: 1}
}

func (s *MemoryRouteStore) SaveRoute(_ context.Context, route models.SavedRoute) (models.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	route.ID = s.nextID
	route.CreatedAt = time.Now().UTC()
	s.nextID++
	s.routes = append(s.routes, route)
	return route, nil
}

func (s *MemoryRouteStore) SavedRoutes(_ context.Context) ([]models.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SavedRoute, len(s.routes))
	copy(out, s.routes)
	return out, nil
}

func (s *MemoryRouteStore) SavedRouteByID(_ context.Context, id int64) (models.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.routes {
		if r.ID == id {
			return r, nil
		}
	}
	return models.SavedRoute{}, ErrRouteNotFound
}
