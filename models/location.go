package models

import (
	"encoding/json"
	"fmt"
)

// Coordinate is a cell position on the world grid. It marshals as the
// two-element array [x, y] used by the frontend.
type Coordinate struct {
	X int
	Y int
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be a two-element array [x, y]: %v", err)
	}
	c.X = pair[0]
	c.Y = pair[1]
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Less orders coordinates by x, then y. Route search uses it to break
// priority ties so results are reproducible.
func (c Coordinate) Less(other Coordinate) bool {
	if c.X != other.X {
		return c.X < other.X
	}
	return c.Y < other.Y
}

// Chebyshev returns the diagonal grid distance to other, max(|dx|, |dy|).
func (c Coordinate) Chebyshev(other Coordinate) float64 {
	dx := c.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return float64(dx)
	}
	return float64(dy)
}

type LocationCategory string

const (
	CategoryHotel           LocationCategory = "Hotel"
	CategoryPark            LocationCategory = "Park"
	CategoryCafe            LocationCategory = "Cafe"
	CategoryRestaurant      LocationCategory = "Restaurant"
	CategoryLandmark        LocationCategory = "Landmark"
	CategoryGasStation      LocationCategory = "Gas_Station"
	CategoryChargingStation LocationCategory = "Electric_Charging_Station"
)

func ParseLocationCategory(input string) (LocationCategory, error) {
	switch LocationCategory(input) {
	case CategoryHotel, CategoryPark, CategoryCafe, CategoryRestaurant,
		CategoryLandmark, CategoryGasStation, CategoryChargingStation:
		return LocationCategory(input), nil
	default:
		return "", fmt.Errorf("unknown location category: %q", input)
	}
}

// IsPublic reports whether cells of this category are open to everyone.
// Hotels are the only private category; everything else on the grid is
// public space.
func (c LocationCategory) IsPublic() bool {
	switch c {
	case CategoryHotel:
		return false
	case CategoryPark, CategoryCafe, CategoryRestaurant, CategoryLandmark,
		CategoryGasStation, CategoryChargingStation:
		return true
	default:
		return false
	}
}

// Location is one cell of the world grid. Public is derived from Category
// at load time, never taken from user input.
type Location struct {
	ID            int64            `json:"locationID"`
	Coord         Coordinate       `json:"coordinate"`
	Name          string           `json:"locationName"`
	Category      LocationCategory `json:"locationType"`
	Public        bool             `json:"isPublic"`
	MaxCapacity   int              `json:"maxCapacity"`
	ParkingSpaces int              `json:"parkingSpaces"`
	CreatedBy     int64            `json:"createdBy,omitempty"`
}
