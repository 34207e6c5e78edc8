package domain

import (
	"fmt"
	"time"
)

// Severity is the urgency level attached to every alert,
// ordered red > orange > yellow.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityYellow Severity = "yellow"
)

// Severities lists all levels from most to least urgent.
var Severities = []Severity{SeverityRed, SeverityOrange, SeverityYellow}

// Valid reports whether s is one of the three enumerated levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityRed, SeverityOrange, SeverityYellow:
		return true
	}
	return false
}

// Rank returns the urgency order: 0 for red, 1 for orange, 2 for yellow.
// Invalid severities rank below yellow.
func (s Severity) Rank() int {
	switch s {
	case SeverityRed:
		return 0
	case SeverityOrange:
		return 1
	case SeverityYellow:
		return 2
	}
	return 3
}

// Icon returns the emoji prefix used in rendered list and toast titles.
func (s Severity) Icon() string {
	switch s {
	case SeverityRed:
		return "🔴"
	case SeverityOrange:
		return "🟠"
	default:
		return "🟡"
	}
}

// LatLng is a WGS-84 latitude/longitude coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordLabel formats a coordinate as the fallback display label used until
// reverse geocoding resolves an address.
func CoordLabel(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}

// AlertItem is one hazard report or system notice.
type AlertItem struct {
	ID        string    `json:"id"` // ua_/sa_ prefix by origin
	Title     Text      `json:"title"`
	Subtitle  Text      `json:"subtitle,omitempty"`
	PhotoURI  string    `json:"photoUri,omitempty"`
	Severity  Severity  `json:"severity"`
	Location  LatLng    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}
