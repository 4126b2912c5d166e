package routing

import "github.com/YahyaAsmara/orbis/models"

// WeightFunc maps an edge to its search cost.
type WeightFunc func(Edge) float64

// EdgeWeight is the weight the search optimizes on: the raw league
// distance. Time and credits are derived afterwards, so every mode competes
// on the same graph and the diagonal-distance heuristic stays admissible.
func EdgeWeight(e Edge) float64 {
	return e.Distance
}

// Summary is the cost breakdown of one leg or one whole route. Time is in
// hours, Cost in credits, Distance in leagues, all at full precision.
type Summary struct {
	Distance float64
	Time     float64
	Cost     float64
}

// Summarize converts a traveled distance into the mode's time and cost.
// This is the only place time and credits are derived from distance.
func Summarize(distance float64, mode models.TransportMode) Summary {
	s := Summary{Distance: distance}
	if mode.SpeedFactor > 0 {
		s.Time = distance / mode.SpeedFactor
	}
	s.Cost = distance * mode.CostFactor
	return s
}

// Add accumulates another leg into the summary.
func (s *Summary) Add(other Summary) {
	s.Distance += other.Distance
	s.Time += other.Time
	s.Cost += other.Cost
}
