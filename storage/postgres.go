package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/models"
	"github.com/YahyaAsmara/orbis/utils"
)

// WorldStore reads the world tables the map frontend maintains (CELL, ROAD,
// ROAD_RESTRICTION, MODE_OF_TRANSPORT) and persists saved trips
// (TRAVEL_ROUTE). Coordinates and segments are stored in the frontend's
// "(x,y)" and "[(x1,y1),(x2,y2)]" text notations.
type WorldStore struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *WorldStore { return &WorldStore{db: db} }

func (s *WorldStore) Close() error { return s.db.Close() }

// EnsureSchema creates the world tables when they do not exist yet and
// seeds MODE_OF_TRANSPORT with the builtin modes so a fresh database can
// route immediately.
func EnsureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS CELL (
	locationID    BIGSERIAL PRIMARY KEY,
	coordinate    TEXT UNIQUE NOT NULL,
	locationName  TEXT NOT NULL,
	locationType  TEXT NOT NULL,
	isPublic      BOOLEAN NOT NULL DEFAULT TRUE,
	maxCapacity   INT NOT NULL DEFAULT 0,
	parkingSpaces INT NOT NULL DEFAULT 0,
	createdBy     BIGINT
);
CREATE TABLE IF NOT EXISTS ROAD (
	roadID       BIGSERIAL PRIMARY KEY,
	roadSegment  TEXT NOT NULL,
	roadName     TEXT NOT NULL DEFAULT '',
	distance     DOUBLE PRECISION NOT NULL,
	roadType     TEXT NOT NULL DEFAULT 'unblocked',
	allowedModes TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS ROAD_RESTRICTION (
	restrictionID   BIGSERIAL PRIMARY KEY,
	roadID          BIGINT NOT NULL REFERENCES ROAD(roadID) ON DELETE CASCADE,
	restrictionName TEXT NOT NULL DEFAULT '',
	startTime       TEXT NOT NULL,
	endTime         TEXT NOT NULL,
	modes           TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS MODE_OF_TRANSPORT (
	modeOfTransportID BIGSERIAL PRIMARY KEY,
	transportType     TEXT UNIQUE NOT NULL,
	speedFactor       DOUBLE PRECISION NOT NULL,
	costFactor        DOUBLE PRECISION NOT NULL,
	ecoFriendly       BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS TRAVEL_ROUTE (
	routeID        BIGSERIAL PRIMARY KEY,
	transportType  TEXT NOT NULL,
	startCellCoord TEXT NOT NULL,
	endCellCoord   TEXT NOT NULL,
	path           TEXT NOT NULL DEFAULT '[]',
	travelTime     DOUBLE PRECISION NOT NULL,
	totalDistance  DOUBLE PRECISION NOT NULL,
	totalCost      DOUBLE PRECISION NOT NULL,
	directions     TEXT NOT NULL DEFAULT '',
	createdAt      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if _, err := db.Exec(ddl); err != nil {
		return errors.Wrap(err, "can't create world tables")
	}

	for _, m := range models.BuiltinModes() {
		_, err := db.Exec(
			`INSERT INTO MODE_OF_TRANSPORT (transportType, speedFactor, costFactor, ecoFriendly)
			 VALUES ($1, $2, $3, $4) ON CONFLICT (transportType) DO NOTHING`,
			string(m.Type), m.SpeedFactor, m.CostFactor, m.EcoFriendly,
		)
		if err != nil {
			return errors.Wrap(err, "can't seed transport modes")
		}
	}
	return nil
}

func (s *WorldStore) CurrentLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT locationID, coordinate, locationName, locationType, maxCapacity, parkingSpaces, COALESCE(createdBy, 0)
		 FROM CELL ORDER BY locationID`)
	if err != nil {
		return nil, errors.Wrap(err, "can't query cells")
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		var coordText, categoryText string
		if err := rows.Scan(&loc.ID, &coordText, &loc.Name, &categoryText, &loc.MaxCapacity, &loc.ParkingSpaces, &loc.CreatedBy); err != nil {
			return nil, errors.Wrap(err, "can't scan cell")
		}
		coord, err := utils.ParseCoordString(coordText)
		if err != nil {
			logger.L().Warn("cell_bad_coordinate", "locationID", loc.ID, "err", err)
			continue
		}
		category, err := models.ParseLocationCategory(categoryText)
		if err != nil {
			logger.L().Warn("cell_bad_category", "locationID", loc.ID, "err", err)
			continue
		}
		loc.Coord = coord
		loc.Category = category
		loc.Public = category.IsPublic()
		locations = append(locations, loc)
	}
	return locations, errors.Wrap(rows.Err(), "can't read cells")
}

func (s *WorldStore) CurrentRoads(ctx context.Context) ([]models.Road, error) {
	restrictions, err := s.restrictionsByRoad(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT roadID, roadSegment, roadName, distance, roadType, allowedModes
		 FROM ROAD ORDER BY roadID`)
	if err != nil {
		return nil, errors.Wrap(err, "can't query roads")
	}
	defer rows.Close()

	var roads []models.Road
	for rows.Next() {
		var id int64
		var segmentText, name, stateText, modesText string
		var distance float64
		if err := rows.Scan(&id, &segmentText, &name, &distance, &stateText, &modesText); err != nil {
			return nil, errors.Wrap(err, "can't scan road")
		}

		// A single malformed road degrades to a warning; the rest of the
		// world still loads.
		segment, err := utils.ParseSegmentString(segmentText)
		if err != nil {
			logger.L().Warn("road_bad_segment", "roadID", id, "err", err)
			continue
		}
		state, err := models.ParseRoadState(stateText)
		if err != nil {
			logger.L().Warn("road_bad_state", "roadID", id, "err", err)
			continue
		}
		allowed, err := utils.ParseModeList(modesText)
		if err != nil {
			logger.L().Warn("road_bad_modes", "roadID", id, "err", err)
			continue
		}

		parts := splitDistance(segment, distance)
		for i, part := range parts {
			roads = append(roads, models.Road{
				ID:           id,
				From:         segment[i],
				To:           segment[i+1],
				Name:         name,
				Distance:     part,
				State:        state,
				AllowedModes: allowed,
				Restrictions: restrictions[id],
			})
		}
	}
	return roads, errors.Wrap(rows.Err(), "can't read roads")
}

func (s *WorldStore) restrictionsByRoad(ctx context.Context) (map[int64][]models.TimeRestriction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT roadID, restrictionName, startTime, endTime, modes
		 FROM ROAD_RESTRICTION ORDER BY restrictionID`)
	if err != nil {
		return nil, errors.Wrap(err, "can't query road restrictions")
	}
	defer rows.Close()

	out := make(map[int64][]models.TimeRestriction)
	for rows.Next() {
		var roadID int64
		var name, startText, endText, modesText string
		if err := rows.Scan(&roadID, &name, &startText, &endText, &modesText); err != nil {
			return nil, errors.Wrap(err, "can't scan road restriction")
		}

		start, err := models.ParseTimeOfDay(startText)
		if err != nil {
			logger.L().Warn("restriction_bad_start", "roadID", roadID, "name", name, "err", err)
			continue
		}
		end, err := models.ParseTimeOfDay(endText)
		if err != nil {
			logger.L().Warn("restriction_bad_end", "roadID", roadID, "name", name, "err", err)
			continue
		}
		modes, err := utils.ParseModeList(modesText)
		if err != nil {
			logger.L().Warn("restriction_bad_modes", "roadID", roadID, "name", name, "err", err)
			continue
		}
		out[roadID] = append(out[roadID], models.TimeRestriction{
			Name:  name,
			Start: start,
			End:   end,
			Modes: modes,
		})
	}
	return out, errors.Wrap(rows.Err(), "can't read road restrictions")
}

// Modes returns the MODE_OF_TRANSPORT rows. Rows with an unknown transport
// type are skipped with a warning rather than failing the catalog.
func (s *WorldStore) Modes(ctx context.Context) ([]models.TransportMode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transportType, speedFactor, costFactor, ecoFriendly
		 FROM MODE_OF_TRANSPORT ORDER BY modeOfTransportID`)
	if err != nil {
		return nil, errors.Wrap(err, "can't query transport modes")
	}
	defer rows.Close()

	var modes []models.TransportMode
	for rows.Next() {
		var typeText string
		var mode models.TransportMode
		if err := rows.Scan(&typeText, &mode.SpeedFactor, &mode.CostFactor, &mode.EcoFriendly); err != nil {
			return nil, errors.Wrap(err, "can't scan transport mode")
		}
		modeType, err := models.ParseTransportType(typeText)
		if err != nil {
			logger.L().Warn("mode_unknown_type", "transportType", typeText)
			continue
		}
		mode.Type = modeType
		modes = append(modes, mode)
	}
	return modes, errors.Wrap(rows.Err(), "can't read transport modes")
}

func (s *WorldStore) SaveRoute(ctx context.Context, route models.SavedRoute) (models.SavedRoute, error) {
	pathJSON, err := json.Marshal(route.Path)
	if err != nil {
		return models.SavedRoute{}, errors.Wrap(err, "can't encode route path")
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO TRAVEL_ROUTE (transportType, startCellCoord, endCellCoord, path, travelTime, totalDistance, totalCost, directions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING routeID, createdAt`,
		string(route.TransportType),
		route.StartCoord.String(),
		route.EndCoord.String(),
		string(pathJSON),
		route.TravelTime,
		route.TotalDistance,
		route.TotalCost,
		strings.Join(route.Directions, "\n"),
	).Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		return models.SavedRoute{}, errors.Wrap(err, "can't insert travel route")
	}
	return route, nil
}

func (s *WorldStore) SavedRoutes(ctx context.Context) ([]models.SavedRoute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT routeID, transportType, startCellCoord, endCellCoord, path, travelTime, totalDistance, totalCost, directions, createdAt
		 FROM TRAVEL_ROUTE ORDER BY routeID`)
	if err != nil {
		return nil, errors.Wrap(err, "can't query travel routes")
	}
	defer rows.Close()

	var routes []models.SavedRoute
	for rows.Next() {
		route, err := scanSavedRoute(rows.Scan)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, errors.Wrap(rows.Err(), "can't read travel routes")
}

func (s *WorldStore) SavedRouteByID(ctx context.Context, id int64) (models.SavedRoute, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT routeID, transportType, startCellCoord, endCellCoord, path, travelTime, totalDistance, totalCost, directions, createdAt
		 FROM TRAVEL_ROUTE WHERE routeID = $1`, id)

	route, err := scanSavedRoute(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedRoute{}, ErrRouteNotFound
	}
	return route, err
}

func scanSavedRoute(scan func(dest ...interface{}) error) (models.SavedRoute, error) {
	var route models.SavedRoute
	var typeText, startText, endText, pathJSON, directionsText string
	err := scan(&route.ID, &typeText, &startText, &endText, &pathJSON,
		&route.TravelTime, &route.TotalDistance, &route.TotalCost, &directionsText, &route.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SavedRoute{}, err
		}
		return models.SavedRoute{}, errors.Wrap(err, "can't scan travel route")
	}

	modeType, err := models.ParseTransportType(typeText)
	if err != nil {
		return models.SavedRoute{}, errors.Wrapf(err, "travel route %d", route.ID)
	}
	start, err := utils.ParseCoordString(startText)
	if err != nil {
		return models.SavedRoute{}, errors.Wrapf(err, "travel route %d", route.ID)
	}
	end, err := utils.ParseCoordString(endText)
	if err != nil {
		return models.SavedRoute{}, errors.Wrapf(err, "travel route %d", route.ID)
	}
	if err := json.Unmarshal([]byte(pathJSON), &route.Path); err != nil {
		return models.SavedRoute{}, errors.Wrapf(err, "travel route %d path", route.ID)
	}

	route.TransportType = modeType
	route.StartCoord = start
	route.EndCoord = end
	if directionsText != "" {
		route.Directions = strings.Split(directionsText, "\n")
	}
	return route, nil
}
