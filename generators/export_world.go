// Command export_world validates a world file and converts it for other
// tools: a gob for fast server startup, CSV tables with WKT geometry, a
// GeoJSON overview for map viewers, and optionally a contraction hierarchy
// of the road graph.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/LdDl/ch"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"

	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/routing"
	"github.com/YahyaAsmara/orbis/storage"
)

var (
	worldFile     = flag.String("world", "data/world.json", "World file to load (.json or .gob)")
	gobOut        = flag.String("gob", "", "Write the world as a gob to this path")
	csvOut        = flag.String("csv", "", "Write CSV tables. E.g.: 'world.csv' also produces 'world_cells.csv' and 'world_shortcuts.csv'")
	geojsonOut    = flag.String("geojson", "", "Write the world as a GeoJSON FeatureCollection to this path")
	doContraction = flag.Bool("contract", true, "Prepare contraction hierarchies for the CSV export?")
)

func main() {
	flag.Parse()

	world, err := storage.ReadWorldFile(*worldFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	snap, err := routing.BuildSnapshot(world.Locations, world.Roads)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %q: %d cells, %d roads\n", world.Title, snap.NodeCount(), snap.EdgeCount())
	for _, a := range snap.Anomalies() {
		fmt.Printf("Warning: road %d %q dropped: %s\n", a.RoadID, a.RoadName, a.Detail)
	}

	if *gobOut != "" {
		if err := storage.SaveWorldGob(*gobOut, world); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *gobOut)
	}
	if *csvOut != "" {
		if err := exportCSV(*csvOut, snap, *doContraction); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	if *geojsonOut != "" {
		if err := exportGeoJSON(*geojsonOut, snap); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *geojsonOut)
	}
}

func exportCSV(base string, snap *routing.GraphSnapshot, contract bool) error {
	namePart := strings.TrimSuffix(base, ".csv")
	fnameRoads := namePart + ".csv"
	fnameCells := namePart + "_cells.csv"
	fnameShortcuts := namePart + "_shortcuts.csv"

	fileRoads, err := os.Create(fnameRoads)
	if err != nil {
		return errors.Wrap(err, "can't create roads csv")
	}
	defer fileRoads.Close()
	writerRoads := csv.NewWriter(fileRoads)
	defer writerRoads.Flush()
	writerRoads.Comma = ';'
	err = writerRoads.Write([]string{"road_id", "from_x", "from_y", "to_x", "to_y", "name", "distance_leagues", "state", "allowed_modes", "geom"})
	if err != nil {
		return err
	}

	graph := ch.Graph{}
	cellID := make(map[models.Coordinate]int64, snap.NodeCount())
	locByID := make(map[int64]models.Location, snap.NodeCount())
	for _, loc := range snap.Locations() {
		cellID[loc.Coord] = loc.ID
		locByID[loc.ID] = loc
		if err := graph.CreateVertex(loc.ID); err != nil {
			return errors.Wrap(err, "can't create vertex")
		}
	}

	// The hierarchy keeps one weight per directed pair, the cheapest of any
	// parallel roads. Blocked roads appear in the table but stay out.
	type pair struct{ from, to int64 }
	cheapest := make(map[pair]float64)

	for _, road := range snap.Roads() {
		modes := make([]string, len(road.AllowedModes))
		for i, m := range road.AllowedModes {
			modes[i] = string(m)
		}
		geom := wkt.MarshalString(orb.LineString{
			{float64(road.From.X), float64(road.From.Y)},
			{float64(road.To.X), float64(road.To.Y)},
		})
		err = writerRoads.Write([]string{
			fmt.Sprintf("%d", road.ID),
			fmt.Sprintf("%d", road.From.X),
			fmt.Sprintf("%d", road.From.Y),
			fmt.Sprintf("%d", road.To.X),
			fmt.Sprintf("%d", road.To.Y),
			road.Name,
			fmt.Sprintf("%f", road.Distance),
			string(road.State),
			strings.Join(modes, ","),
			geom,
		})
		if err != nil {
			return err
		}

		if road.State == models.RoadBlocked {
			continue
		}
		from, to := cellID[road.From], cellID[road.To]
		for _, p := range []pair{{from, to}, {to, from}} {
			if prev, ok := cheapest[p]; !ok || road.Distance < prev {
				cheapest[p] = road.Distance
			}
		}
	}

	pairs := make([]pair, 0, len(cheapest))
	for p := range cheapest {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].from != pairs[j].from {
			return pairs[i].from < pairs[j].from
		}
		return pairs[i].to < pairs[j].to
	})
	for _, p := range pairs {
		if err := graph.AddEdge(p.from, p.to, cheapest[p]); err != nil {
			return errors.Wrap(err, "can't add edge")
		}
	}

	if contract {
		fmt.Println("Starting contraction process....")
		st := time.Now()
		graph.PrepareContractionHierarchies()
		fmt.Printf("Done contraction process in %v\n", time.Since(st))
	}

	fileCells, err := os.Create(fnameCells)
	if err != nil {
		return errors.Wrap(err, "can't create cells csv")
	}
	defer fileCells.Close()
	writerCells := csv.NewWriter(fileCells)
	defer writerCells.Flush()
	writerCells.Comma = ';'
	err = writerCells.Write([]string{"location_id", "x", "y", "name", "category", "order_pos", "importance", "geom"})
	if err != nil {
		return err
	}

	for i := range graph.Vertices {
		loc := locByID[graph.Vertices[i].Label]
		geom := wkt.MarshalString(orb.Point{float64(loc.Coord.X), float64(loc.Coord.Y)})
		err = writerCells.Write([]string{
			fmt.Sprintf("%d", loc.ID),
			fmt.Sprintf("%d", loc.Coord.X),
			fmt.Sprintf("%d", loc.Coord.Y),
			loc.Name,
			string(loc.Category),
			fmt.Sprintf("%d", graph.Vertices[i].OrderPos()),
			fmt.Sprintf("%d", graph.Vertices[i].Importance()),
			geom,
		})
		if err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %s and %s\n", fnameRoads, fnameCells)

	if contract {
		if err := graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
			return errors.Wrap(err, "can't export shortcuts")
		}
		fmt.Printf("Wrote %s\n", fnameShortcuts)
	}
	return nil
}

func exportGeoJSON(path string, snap *routing.GraphSnapshot) error {
	fc := geojson.NewFeatureCollection()

	for _, loc := range snap.Locations() {
		f := geojson.NewFeature(geojson.NewPointGeometry(
			[]float64{float64(loc.Coord.X), float64(loc.Coord.Y)}))
		f.SetProperty("locationID", loc.ID)
		f.SetProperty("name", loc.Name)
		f.SetProperty("category", string(loc.Category))
		f.SetProperty("isPublic", loc.Public)
		fc.AddFeature(f)
	}
	for _, road := range snap.Roads() {
		f := geojson.NewFeature(geojson.NewLineStringGeometry([][]float64{
			{float64(road.From.X), float64(road.From.Y)},
			{float64(road.To.X), float64(road.To.Y)},
		}))
		f.SetProperty("roadID", road.ID)
		f.SetProperty("name", road.Name)
		f.SetProperty("distance", road.Distance)
		f.SetProperty("state", string(road.State))
		fc.AddFeature(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "can't encode geojson")
	}
	return os.WriteFile(path, b, 0o644)
}
