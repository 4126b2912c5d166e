package routing

import (
	"sort"

	"github.com/YahyaAsmara/orbis/models"
)

// EdgeFilter decides which edges a particular request may traverse. It is a
// pure value; the same filter gives the same answer for the same edge on
// every call.
type EdgeFilter struct {
	Mode      models.TransportType
	TimeOfDay models.TimeOfDay
}

func NewEdgeFilter(mode models.TransportType, timeOfDay models.TimeOfDay) EdgeFilter {
	return EdgeFilter{Mode: mode, TimeOfDay: timeOfDay}
}

// ReasonIfExcluded returns why the edge cannot be traversed, or ok=false
// when it can. Blocking wins over mode access, which wins over time
// windows, so the reported reason is stable for a given edge and request.
func (f EdgeFilter) ReasonIfExcluded(e Edge) (models.ExclusionReason, bool) {
	if e.State == models.RoadBlocked {
		return models.ReasonBlocked, true
	}
	if len(e.AllowedModes) > 0 && !modeListed(e.AllowedModes, f.Mode) {
		return models.ReasonModeRestricted, true
	}
	for _, tr := range e.Restrictions {
		if tr.Covers(f.Mode, f.TimeOfDay) {
			return models.ReasonTimeRestricted, true
		}
	}
	return "", false
}

// IsTraversable reports whether the request may use the edge.
func (f EdgeFilter) IsTraversable(e Edge) bool {
	_, excluded := f.ReasonIfExcluded(e)
	return !excluded
}

func modeListed(modes []models.TransportType, mode models.TransportType) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

type closedKey struct {
	roadID int64
	reason models.ExclusionReason
}

// ExclusionLog collects the edges a search refused to use, deduplicated by
// road and reason. One log is shared across all legs of a request so the
// closed-areas report covers the whole trip.
type ExclusionLog struct {
	seen  map[closedKey]bool
	areas []models.ClosedArea
}

func NewExclusionLog() *ExclusionLog {
	return &ExclusionLog{seen: make(map[closedKey]bool)}
}

// Record notes that e was excluded for the given reason. Safe to call on a
// nil log, which records nothing.
func (l *ExclusionLog) Record(e Edge, reason models.ExclusionReason) {
	if l == nil {
		return
	}
	key := closedKey{roadID: e.RoadID, reason: reason}
	if l.seen[key] {
		return
	}
	l.seen[key] = true
	l.areas = append(l.areas, models.ClosedArea{RoadID: e.RoadID, RoadName: e.Name, Reason: reason})
}

// Areas returns the recorded closed areas ordered by road id then reason.
func (l *ExclusionLog) Areas() []models.ClosedArea {
	if l == nil || len(l.areas) == 0 {
		return nil
	}
	out := make([]models.ClosedArea, len(l.areas))
	copy(out, l.areas)
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoadID != out[j].RoadID {
			return out[i].RoadID < out[j].RoadID
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
