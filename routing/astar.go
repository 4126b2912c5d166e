package routing

import (
	"container/heap"

	"github.com/YahyaAsmara/orbis/models"
)

// SearchResult is the outcome of one single-pair search. Distance is the
// sum of traversed edge weights at full precision; Expanded counts the
// cells taken off the frontier, mostly for instrumentation.
type SearchResult struct {
	Path     []models.Coordinate
	Distance float64
	Expanded int
}

type frontierItem struct {
	Coord    models.Coordinate
	GScore   float64
	Priority float64
	Index    int
}

// frontier orders items by f = g + h. Ties fall back to the lower g, then
// to coordinate order, so the pop sequence is identical on every run.
type frontier []*frontierItem

func (fr frontier) Len() int { return len(fr) }

func (fr frontier) Less(i, j int) bool {
	if fr[i].Priority != fr[j].Priority {
		return fr[i].Priority < fr[j].Priority
	}
	if fr[i].GScore != fr[j].GScore {
		return fr[i].GScore < fr[j].GScore
	}
	return fr[i].Coord.Less(fr[j].Coord)
}

func (fr frontier) Swap(i, j int) {
	fr[i], fr[j] = fr[j], fr[i]
	fr[i].Index = i
	fr[j].Index = j
}

func (fr *frontier) Push(x interface{}) {
	n := len(*fr)
	item := x.(*frontierItem)
	item.Index = n
	*fr = append(*fr, item)
}

func (fr *frontier) Pop() interface{} {
	old := *fr
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*fr = old[0 : n-1]
	return item
}

// Search runs A* between two cells of the snapshot. The heuristic is the
// Chebyshev distance to the goal, which never overestimates because the
// snapshot build already dropped any road shorter than its diagonal span.
//
// Edges rejected by the filter are reported to exclusions (which may be
// nil) with their reason. When several parallel edges join the same pair
// of cells, only the cheapest traversable one is relaxed. A nil weight
// defaults to EdgeWeight.
//
// Search fails with InvalidEndpointError when start or goal is not a cell,
// and with ErrNotFound when the frontier empties before the goal is
// reached. Both outcomes, like success, are deterministic for an unchanged
// snapshot and identical arguments.
func Search(snap *GraphSnapshot, start, goal models.Coordinate, filter EdgeFilter, weight WeightFunc, exclusions *ExclusionLog) (SearchResult, error) {
	if weight == nil {
		weight = EdgeWeight
	}
	if !snap.Contains(start) {
		return SearchResult{}, &InvalidEndpointError{Coord: start}
	}
	if !snap.Contains(goal) {
		return SearchResult{}, &InvalidEndpointError{Coord: goal}
	}
	if start == goal {
		return SearchResult{Path: []models.Coordinate{start}}, nil
	}

	gScore := map[models.Coordinate]float64{start: 0}
	cameFrom := make(map[models.Coordinate]models.Coordinate)
	closed := make(map[models.Coordinate]bool)

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &frontierItem{Coord: start, GScore: 0, Priority: start.Chebyshev(goal)})

	expanded := 0

	for open.Len() > 0 {
		item := heap.Pop(open).(*frontierItem)
		current := item.Coord

		// Stale entry from before a cheaper path to this cell was found.
		if closed[current] {
			continue
		}
		if current == goal {
			return SearchResult{
				Path:     reconstructPath(cameFrom, current),
				Distance: item.GScore,
				Expanded: expanded,
			}, nil
		}
		closed[current] = true
		expanded++

		edges := snap.Edges(current)
		for gi := 0; gi < len(edges); {
			// Parallel edges to the same neighbor are contiguous in the
			// sorted adjacency list; scan the group for the cheapest one
			// the filter lets through, recording the rest.
			ge := gi + 1
			for ge < len(edges) && edges[ge].To == edges[gi].To {
				ge++
			}
			neighbor := edges[gi].To

			bestIdx := -1
			bestWeight := 0.0
			for k := gi; k < ge; k++ {
				if reason, isExcluded := filter.ReasonIfExcluded(edges[k]); isExcluded {
					exclusions.Record(edges[k], reason)
					continue
				}
				if w := weight(edges[k]); bestIdx == -1 || w < bestWeight {
					bestIdx = k
					bestWeight = w
				}
			}
			gi = ge

			if bestIdx == -1 || closed[neighbor] {
				continue
			}

			tentative := gScore[current] + bestWeight
			if old, ok := gScore[neighbor]; !ok || tentative < old {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentative
				heap.Push(open, &frontierItem{
					Coord:    neighbor,
					GScore:   tentative,
					Priority: tentative + neighbor.Chebyshev(goal),
				})
			}
		}
	}

	return SearchResult{Expanded: expanded}, ErrNotFound
}

func reconstructPath(cameFrom map[models.Coordinate]models.Coordinate, current models.Coordinate) []models.Coordinate {
	path := []models.Coordinate{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// cheapestTraversable picks the edge the search would have used between two
// adjacent cells: the lowest-weight edge the filter admits. The planner
// uses it to name roads in the directions text.
func (s *GraphSnapshot) cheapestTraversable(from, to models.Coordinate, filter EdgeFilter, weight WeightFunc) (Edge, bool) {
	if weight == nil {
		weight = EdgeWeight
	}
	var best Edge
	bestWeight := 0.0
	found := false
	for _, e := range s.adjacency[from] {
		if e.To != to || !filter.IsTraversable(e) {
			continue
		}
		if w := weight(e); !found || w < bestWeight {
			best = e
			bestWeight = w
			found = true
		}
	}
	return best, found
}
