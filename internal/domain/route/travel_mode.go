package route

import (
	"fmt"
	"strings"
)

// TravelMode is the transportation method used for route computation.
type TravelMode string

const (
	ModeDriving   TravelMode = "DRIVING"
	ModeWalking   TravelMode = "WALKING"
	ModeTransit   TravelMode = "TRANSIT"
	ModeBicycling TravelMode = "BICYCLING"
)

// DefaultTravelMode is active until the user picks another one.
const DefaultTravelMode = ModeDriving

// IsValid returns true if the mode is one of the four supported modes.
func (m TravelMode) IsValid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeTransit, ModeBicycling:
		return true
	}
	return false
}

// Label is the human form shown in the stats panel: lower-cased, underscores as spaces.
func (m TravelMode) Label() string {
	return strings.ReplaceAll(strings.ToLower(string(m)), "_", " ")
}

// String returns the string representation of the mode.
func (m TravelMode) String() string {
	return string(m)
}

// ParseTravelMode accepts any letter case, e.g. "walking" or "WALKING".
func ParseTravelMode(s string) (TravelMode, error) {
	mode := TravelMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid travel mode: %s", s)
	}
	return mode, nil
}
