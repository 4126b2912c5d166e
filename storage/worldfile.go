package storage

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/models"
)

// World is the parsed content of a world file: everything needed to build a
// snapshot and answer mode-catalog lookups without a database.
type World struct {
	Title     string
	Locations []models.Location
	Roads     []models.Road
	Modes     []models.TransportMode
}

// worldDocument is the JSON shape of a world file. Roads carry a segment of
// two or more points; multi-point segments are decomposed into consecutive
// two-point roads on load, with the declared distance split across the
// parts in proportion to their diagonal spans.
type worldDocument struct {
	Title     string          `json:"title"`
	Locations []worldLocation `json:"locations"`
	Roads     []worldRoad     `json:"roads"`
	Modes     []worldMode     `json:"modes,omitempty"`
}

type worldLocation struct {
	ID            int64             `json:"locationID"`
	Coord         models.Coordinate `json:"coordinate"`
	Name          string            `json:"locationName"`
	Category      string            `json:"locationType"`
	MaxCapacity   int               `json:"maxCapacity"`
	ParkingSpaces int               `json:"parkingSpaces"`
	CreatedBy     int64             `json:"createdBy,omitempty"`
}

type worldRoad struct {
	ID           int64               `json:"roadID"`
	Segment      []models.Coordinate `json:"segment"`
	Name         string              `json:"roadName"`
	Distance     float64             `json:"distance"`
	State        string              `json:"state,omitempty"`
	AllowedModes []string            `json:"allowedModes,omitempty"`
	Restrictions []worldRestriction  `json:"restrictions,omitempty"`
}

type worldRestriction struct {
	Name  string           `json:"name"`
	Start models.TimeOfDay `json:"startTime"`
	End   models.TimeOfDay `json:"endTime"`
	Modes []string         `json:"modes"`
}

type worldMode struct {
	Type        string  `json:"transportType"`
	SpeedFactor float64 `json:"speedFactor"`
	CostFactor  float64 `json:"costFactor"`
	EcoFriendly bool    `json:"ecoFriendly"`
}

// ReadWorldFile loads a world from disk. Files ending in .gob are decoded
// directly (the fast path the export tool produces); anything else is
// parsed as the JSON world format.
func ReadWorldFile(path string) (*World, error) {
	if strings.EqualFold(filepath.Ext(path), ".gob") {
		return readWorldGob(path)
	}
	return readWorldJSON(path)
}

func readWorldJSON(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open world file")
	}
	defer f.Close()

	var doc worldDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "can't parse world file %s", path)
	}
	return doc.toWorld()
}

func readWorldGob(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open world gob")
	}
	defer f.Close()

	var w World
	if err := gob.NewDecoder(f).Decode(&w); err != nil {
		return nil, errors.Wrapf(err, "can't decode world gob %s", path)
	}
	return &w, nil
}

// SaveWorldGob writes the world in the gob form ReadWorldFile loads, so
// servers can skip JSON parsing and segment decomposition at startup.
func SaveWorldGob(path string, w *World) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "can't create output directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "can't create world gob")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(w); err != nil {
		return errors.Wrapf(err, "can't encode world gob %s", path)
	}
	return nil
}

func (doc worldDocument) toWorld() (*World, error) {
	w := &World{Title: doc.Title}

	for _, wl := range doc.Locations {
		category, err := models.ParseLocationCategory(wl.Category)
		if err != nil {
			return nil, fmt.Errorf("location %d: %v", wl.ID, err)
		}
		w.Locations = append(w.Locations, models.Location{
			ID:            wl.ID,
			Coord:         wl.Coord,
			Name:          wl.Name,
			Category:      category,
			Public:        category.IsPublic(),
			MaxCapacity:   wl.MaxCapacity,
			ParkingSpaces: wl.ParkingSpaces,
			CreatedBy:     wl.CreatedBy,
		})
	}

	// A single malformed road degrades to a warning; the rest of the world
	// still loads.
	for _, wr := range doc.Roads {
		roads, err := wr.toRoads()
		if err != nil {
			logger.L().Warn("world_road_malformed", "roadID", wr.ID, "err", err)
			continue
		}
		w.Roads = append(w.Roads, roads...)
	}

	for _, wm := range doc.Modes {
		modeType, err := models.ParseTransportType(wm.Type)
		if err != nil {
			return nil, fmt.Errorf("mode catalog: %v", err)
		}
		w.Modes = append(w.Modes, models.TransportMode{
			Type:        modeType,
			SpeedFactor: wm.SpeedFactor,
			CostFactor:  wm.CostFactor,
			EcoFriendly: wm.EcoFriendly,
		})
	}

	return w, nil
}

// toRoads turns one file road into its two-point segments. The declared
// distance is split across the parts in proportion to each part's diagonal
// span, which keeps every part at or above its own span whenever the whole
// road was. All parts share the road's id, name, state, mode set and
// restrictions.
func (wr worldRoad) toRoads() ([]models.Road, error) {
	if len(wr.Segment) < 2 {
		return nil, fmt.Errorf("segment needs at least two points, got %d", len(wr.Segment))
	}

	state, err := models.ParseRoadState(wr.State)
	if err != nil {
		return nil, err
	}

	var allowed []models.TransportType
	for _, raw := range wr.AllowedModes {
		mode, err := models.ParseTransportType(raw)
		if err != nil {
			return nil, err
		}
		allowed = append(allowed, mode)
	}

	var restrictions []models.TimeRestriction
	for _, raw := range wr.Restrictions {
		var modes []models.TransportType
		for _, m := range raw.Modes {
			mode, err := models.ParseTransportType(m)
			if err != nil {
				return nil, fmt.Errorf("restriction %q: %v", raw.Name, err)
			}
			modes = append(modes, mode)
		}
		restrictions = append(restrictions, models.TimeRestriction{
			Name:  raw.Name,
			Start: raw.Start,
			End:   raw.End,
			Modes: modes,
		})
	}

	parts := splitDistance(wr.Segment, wr.Distance)
	roads := make([]models.Road, 0, len(parts))
	for i, part := range parts {
		roads = append(roads, models.Road{
			ID:           wr.ID,
			From:         wr.Segment[i],
			To:           wr.Segment[i+1],
			Name:         wr.Name,
			Distance:     part,
			State:        state,
			AllowedModes: allowed,
			Restrictions: restrictions,
		})
	}
	return roads, nil
}

// splitDistance apportions a road's declared distance across the two-point
// parts of its segment, proportionally to each part's diagonal span. A road
// whose total distance covers the total span then yields parts that each
// cover their own span, so decomposition never manufactures an
// inadmissible edge. Zero-span segments fall back to an even split.
func splitDistance(points []models.Coordinate, distance float64) []float64 {
	spans := make([]float64, 0, len(points)-1)
	spanSum := 0.0
	for i := 0; i+1 < len(points); i++ {
		span := points[i].Chebyshev(points[i+1])
		spans = append(spans, span)
		spanSum += span
	}

	parts := make([]float64, len(spans))
	for i, span := range spans {
		if spanSum > 0 {
			parts[i] = distance * span / spanSum
		} else {
			parts[i] = distance / float64(len(spans))
		}
	}
	return parts
}

// FileSource is a GraphSource backed by a world file. The file is parsed
// once and reread only when its modification time changes, so a running
// server picks up edits on the next snapshot refresh without a restart.
type FileSource struct {
	path string

	mu      sync.Mutex
	loaded  *World
	modTime time.Time
}

func OpenWorldFile(path string) (*FileSource, error) {
	fs := &FileSource{path: path}
	if _, err := fs.world(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileSource) world() (*World, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		return nil, errors.Wrap(err, "can't stat world file")
	}
	if f.loaded != nil && info.ModTime().Equal(f.modTime) {
		return f.loaded, nil
	}

	w, err := ReadWorldFile(f.path)
	if err != nil {
		return nil, err
	}
	logger.L().Info("world_file_loaded",
		"path", f.path,
		"title", w.Title,
		"locations", len(w.Locations),
		"roads", len(w.Roads),
	)
	f.loaded = w
	f.modTime = info.ModTime()
	return w, nil
}

func (f *FileSource) CurrentLocations(ctx context.Context) ([]models.Location, error) {
	w, err := f.world()
	if err != nil {
		return nil, err
	}
	return w.Locations, nil
}

func (f *FileSource) CurrentRoads(ctx context.Context) ([]models.Road, error) {
	w, err := f.world()
	if err != nil {
		return nil, err
	}
	return w.Roads, nil
}

// Modes returns the file's mode catalog, or nil when the file declares
// none and the builtin table should be used.
func (f *FileSource) Modes(ctx context.Context) ([]models.TransportMode, error) {
	w, err := f.world()
	if err != nil {
		return nil, err
	}
	return w.Modes, nil
}
