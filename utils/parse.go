package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YahyaAsmara/orbis/models"
)

// ParseCoordString reads the "(x,y)" cell notation the world database and
// the map frontend use.
func ParseCoordString(input string) (models.Coordinate, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return models.Coordinate{}, fmt.Errorf("invalid coordinate %q, want \"(x,y)\"", input)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("invalid coordinate %q, want \"(x,y)\"", input)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid x in coordinate %q: %v", input, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid y in coordinate %q: %v", input, err)
	}
	return models.Coordinate{X: x, Y: y}, nil
}

// ParseSegmentString reads the "[(x1,y1),(x2,y2)]" road segment notation
// from the ROAD table. Segments may list more than two points; callers
// decompose those into consecutive two-point roads.
func ParseSegmentString(input string) ([]models.Coordinate, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("invalid segment %q, want \"[(x1,y1),(x2,y2)]\"", input)
	}
	inner := s[1 : len(s)-1]

	var coords []models.Coordinate
	for len(inner) > 0 {
		inner = strings.TrimLeft(inner, ", ")
		if inner == "" {
			break
		}
		end := strings.IndexByte(inner, ')')
		if end < 0 {
			return nil, fmt.Errorf("invalid segment %q: unterminated coordinate", input)
		}
		coord, err := ParseCoordString(inner[:end+1])
		if err != nil {
			return nil, err
		}
		coords = append(coords, coord)
		inner = inner[end+1:]
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("invalid segment %q: need at least two points", input)
	}
	return coords, nil
}

// ParseModeList reads a comma-separated transport mode list such as
// "car,bus". Empty input means no restriction.
func ParseModeList(input string) ([]models.TransportType, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	var modes []models.TransportType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mode, err := models.ParseTransportType(part)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}
