package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type RoadState string

const (
	RoadUnblocked RoadState = "unblocked"
	RoadBlocked   RoadState = "blocked"
)

func ParseRoadState(input string) (RoadState, error) {
	switch RoadState(input) {
	case RoadUnblocked, RoadBlocked:
		return RoadState(input), nil
	case "":
		return RoadUnblocked, nil
	default:
		return "", fmt.Errorf("unknown road state: %q", input)
	}
}

// ExclusionReason explains why a road was left out of a route search.
type ExclusionReason string

const (
	ReasonBlocked        ExclusionReason = "blocked"
	ReasonModeRestricted ExclusionReason = "mode-restricted"
	ReasonTimeRestricted ExclusionReason = "time-restricted"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay accepts "HH:MM" or an ISO 8601 timestamp, from which only
// the time-of-day component is kept.
func ParseTimeOfDay(input string) (TimeOfDay, error) {
	if t, err := time.Parse("15:04", input); err == nil {
		return TimeOfDay(t.Hour()*60 + t.Minute()), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, input); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, want HH:MM or an ISO 8601 timestamp", input)
}

func (t TimeOfDay) String() string {
	m := ((int(t) % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MarshalJSON writes the time as its "HH:MM" form, the notation world files
// and the API use.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseTimeOfDay(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	// Older world files stored minutes since midnight as a bare number.
	var minutes int
	if err := json.Unmarshal(data, &minutes); err != nil {
		return fmt.Errorf("time of day must be an \"HH:MM\" string: %s", data)
	}
	if minutes < 0 || minutes >= minutesPerDay {
		return fmt.Errorf("time of day %d is outside a single day", minutes)
	}
	*t = TimeOfDay(minutes)
	return nil
}

// TimeRestriction forbids a set of transport modes on one road during a
// daily window. The window is half-open [Start, End); when End < Start it
// wraps across midnight.
type TimeRestriction struct {
	Name  string          `json:"name"`
	Start TimeOfDay       `json:"startTime"`
	End   TimeOfDay       `json:"endTime"`
	Modes []TransportType `json:"modes"`
}

// InWindow reports whether t falls inside the restriction's daily window.
func (tr TimeRestriction) InWindow(t TimeOfDay) bool {
	if tr.Start == tr.End {
		return false
	}
	if tr.End < tr.Start {
		return t >= tr.Start || t < tr.End
	}
	return t >= tr.Start && t < tr.End
}

// Covers reports whether the restriction applies to mode at time t.
func (tr TimeRestriction) Covers(mode TransportType, t TimeOfDay) bool {
	if !tr.InWindow(t) {
		return false
	}
	for _, m := range tr.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Road is an undirected segment between two grid cells. An empty
// AllowedModes set means the road is open to every mode; a non-empty set
// limits it to exactly those modes. Distance is measured in leagues.
type Road struct {
	ID           int64             `json:"roadID"`
	From         Coordinate        `json:"from"`
	To           Coordinate        `json:"to"`
	Name         string            `json:"roadName"`
	Distance     float64           `json:"distance"`
	State        RoadState         `json:"state"`
	AllowedModes []TransportType   `json:"allowedModes,omitempty"`
	Restrictions []TimeRestriction `json:"restrictions,omitempty"`
}

// AccessibleTo reports whether the road's declared mode set admits mode.
// Blocking state and time restrictions are judged separately.
func (r Road) AccessibleTo(mode TransportType) bool {
	if len(r.AllowedModes) == 0 {
		return true
	}
	for _, m := range r.AllowedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// ChebyshevSpan is the diagonal grid distance between the road's endpoints.
// A road declaring a distance below this span would break the search
// heuristic, so snapshot construction flags it.
func (r Road) ChebyshevSpan() float64 {
	return r.From.Chebyshev(r.To)
}
