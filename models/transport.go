package models

import (
	"fmt"
	"strings"
)

type TransportType string

const (
	TransportCar     TransportType = "car"
	TransportBicycle TransportType = "bicycle"
	TransportBus     TransportType = "bus"
	TransportWalking TransportType = "walking"
)

func ParseTransportType(input string) (TransportType, error) {
	switch strings.ToLower(input) {
	case "car":
		return TransportCar, nil
	case "bicycle", "bike", "biking":
		return TransportBicycle, nil
	case "bus":
		return TransportBus, nil
	case "walking", "walk":
		return TransportWalking, nil
	default:
		return "", fmt.Errorf("unknown transport type: %q", input)
	}
}

// TransportMode carries the per-mode factors used to turn a raw league
// distance into travel time and credit cost. SpeedFactor is leagues per
// hour, CostFactor is credits per league. The route search itself never
// reads these; only the cost summary does.
type TransportMode struct {
	Type        TransportType `json:"transportType"`
	SpeedFactor float64       `json:"speedFactor"`
	CostFactor  float64       `json:"costFactor"`
	EcoFriendly bool          `json:"ecoFriendly"`
}

// BuiltinModes is the default mode catalog, used when no MODE_OF_TRANSPORT
// rows are available from storage.
func BuiltinModes() []TransportMode {
	return []TransportMode{
		{Type: TransportCar, SpeedFactor: 10, CostFactor: 2, EcoFriendly: false},
		{Type: TransportBus, SpeedFactor: 6, CostFactor: 0.5, EcoFriendly: true},
		{Type: TransportBicycle, SpeedFactor: 4, CostFactor: 0, EcoFriendly: true},
		{Type: TransportWalking, SpeedFactor: 1.5, CostFactor: 0, EcoFriendly: true},
	}
}
