package location

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A Position is a pair of WGS84 coordinates.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String returns the "lat,lon" form expected by the backend.
func (p Position) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// Validate checks that the coordinates are within range.
func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("location: latitude %v out of range", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("location: longitude %v out of range", p.Longitude)
	}
	return nil
}

// ParsePosition parses "lat,lon".
func ParsePosition(raw string) (Position, error) {
	latRaw, lonRaw, ok := strings.Cut(raw, ",")
	if !ok {
		return Position{}, errors.New("location: expected lat,lon")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return Position{}, fmt.Errorf("location: invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return Position{}, fmt.Errorf("location: invalid longitude: %w", err)
	}
	p := Position{Latitude: lat, Longitude: lon}
	return p, p.Validate()
}
