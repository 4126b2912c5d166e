package routing

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/YahyaAsmara/orbis/models"
)

// Edge is one traversable direction of a road inside a snapshot. Roads are
// undirected, so every road contributes two edges (except self loops).
type Edge struct {
	RoadID       int64
	From         models.Coordinate
	To           models.Coordinate
	Name         string
	Distance     float64
	State        models.RoadState
	AllowedModes []models.TransportType
	Restrictions []models.TimeRestriction
}

// Anomaly records a road that was dropped from the snapshot instead of
// failing the whole build: bad but survivable world data.
type Anomaly struct {
	RoadID   int64  `json:"roadID"`
	RoadName string `json:"roadName,omitempty"`
	Detail   string `json:"detail"`
}

// GraphSnapshot is an immutable view of the world grid used for route
// computation. Once built it is only ever read, so a single snapshot can be
// shared by any number of concurrent searches.
type GraphSnapshot struct {
	version   int64
	locations map[models.Coordinate]models.Location
	adjacency map[models.Coordinate][]Edge
	roads     []models.Road
	anomalies []Anomaly
}

var snapshotSeq atomic.Int64

// BuildSnapshot validates locations and roads and assembles the adjacency
// structure the search runs on.
//
// A road with an endpoint that is not a known cell fails the build with
// DataIntegrityError. A road with a negative distance, or with a distance
// below the diagonal span of its endpoints, is excluded and reported as an
// anomaly; keeping it would let the search heuristic overestimate and
// silently return non-optimal paths. Parallel roads between the same pair
// of cells are all kept.
func BuildSnapshot(locations []models.Location, roads []models.Road) (*GraphSnapshot, error) {
	snap := &GraphSnapshot{
		locations: make(map[models.Coordinate]models.Location, len(locations)),
		adjacency: make(map[models.Coordinate][]Edge),
	}

	for _, loc := range locations {
		if existing, ok := snap.locations[loc.Coord]; ok {
			return nil, &DataIntegrityError{
				Detail: fmt.Sprintf("locations %d and %d both occupy cell %s", existing.ID, loc.ID, loc.Coord),
			}
		}
		snap.locations[loc.Coord] = loc
	}

	for _, road := range roads {
		if _, ok := snap.locations[road.From]; !ok {
			return nil, &DataIntegrityError{
				RoadID: road.ID,
				Detail: fmt.Sprintf("endpoint %s is not a known cell", road.From),
			}
		}
		if _, ok := snap.locations[road.To]; !ok {
			return nil, &DataIntegrityError{
				RoadID: road.ID,
				Detail: fmt.Sprintf("endpoint %s is not a known cell", road.To),
			}
		}
		if road.Distance < 0 {
			snap.flag(road, fmt.Sprintf("negative distance %.2f", road.Distance))
			continue
		}
		if span := road.ChebyshevSpan(); road.Distance < span {
			snap.flag(road, fmt.Sprintf("distance %.2f is below the %.0f league diagonal span of %s-%s",
				road.Distance, span, road.From, road.To))
			continue
		}

		snap.roads = append(snap.roads, road)
		snap.adjacency[road.From] = append(snap.adjacency[road.From], directedEdge(road, road.From, road.To))
		if road.From != road.To {
			snap.adjacency[road.To] = append(snap.adjacency[road.To], directedEdge(road, road.To, road.From))
		}
	}

	// Adjacency lists are sorted so expansions visit neighbors in a fixed
	// order and parallel edges to the same neighbor sit together, cheapest
	// first. Search determinism depends on this.
	for coord := range snap.adjacency {
		edges := snap.adjacency[coord]
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].To != edges[j].To {
				return edges[i].To.Less(edges[j].To)
			}
			if edges[i].Distance != edges[j].Distance {
				return edges[i].Distance < edges[j].Distance
			}
			return edges[i].RoadID < edges[j].RoadID
		})
	}

	snap.version = snapshotSeq.Add(1)
	return snap, nil
}

func directedEdge(road models.Road, from, to models.Coordinate) Edge {
	return Edge{
		RoadID:       road.ID,
		From:         from,
		To:           to,
		Name:         road.Name,
		Distance:     road.Distance,
		State:        road.State,
		AllowedModes: road.AllowedModes,
		Restrictions: road.Restrictions,
	}
}

func (s *GraphSnapshot) flag(road models.Road, detail string) {
	s.anomalies = append(s.anomalies, Anomaly{RoadID: road.ID, RoadName: road.Name, Detail: detail})
}

// Version increases with every successful build, letting callers key caches
// on the exact graph a result was computed against.
func (s *GraphSnapshot) Version() int64 { return s.version }

// Contains reports whether coord is a cell of the snapshot.
func (s *GraphSnapshot) Contains(coord models.Coordinate) bool {
	_, ok := s.locations[coord]
	return ok
}

// Location returns the cell at coord.
func (s *GraphSnapshot) Location(coord models.Coordinate) (models.Location, bool) {
	loc, ok := s.locations[coord]
	return loc, ok
}

// Edges returns the outgoing edges of coord. The returned slice is shared
// with the snapshot and must not be modified.
func (s *GraphSnapshot) Edges(coord models.Coordinate) []Edge {
	return s.adjacency[coord]
}

// Locations returns every cell, ordered by coordinate.
func (s *GraphSnapshot) Locations() []models.Location {
	out := make([]models.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coord.Less(out[j].Coord) })
	return out
}

// Roads returns every road that survived validation, in input order.
func (s *GraphSnapshot) Roads() []models.Road {
	return s.roads
}

// Anomalies returns the roads dropped during the build.
func (s *GraphSnapshot) Anomalies() []Anomaly {
	return s.anomalies
}

// NodeCount returns the number of cells in the snapshot.
func (s *GraphSnapshot) NodeCount() int { return len(s.locations) }

// EdgeCount returns the number of roads kept in the snapshot.
func (s *GraphSnapshot) EdgeCount() int { return len(s.roads) }
