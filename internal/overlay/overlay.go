// Package overlay derives the map circles drawn for recent forecast alerts.
// It is a read-only view over the store; the map layer consumes the circles
// and does the actual drawing.
package overlay

import (
	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

const (
	// maxCircles caps how many recent system alerts appear on the map.
	maxCircles = 6
	// circleRadiusM is the drawn radius of each alert circle.
	circleRadiusM = 600
)

// Style carries the circle drawing props for the map layer. Distinct from
// the ponding analysis palette: forecast circles use opaque hex strokes and
// a fill that fades with severity.
type Style struct {
	RadiusM     float64 `json:"radius_m"`
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	StrokeWidth int     `json:"stroke_width"`
}

var palette = map[domain.Severity]Style{
	domain.SeverityRed:    {Stroke: "#ef4444", Fill: "rgba(239,68,68,0.28)"},
	domain.SeverityOrange: {Stroke: "#f59e0b", Fill: "rgba(245,158,11,0.26)"},
	domain.SeverityYellow: {Stroke: "#eab308", Fill: "rgba(234,179,8,0.24)"},
}

func styleFor(sev domain.Severity) Style {
	style, ok := palette[sev]
	if !ok {
		style = palette[domain.SeverityYellow]
	}
	style.RadiusM = circleRadiusM
	style.StrokeWidth = 2
	return style
}

// Circle is one renderable alert marker.
type Circle struct {
	AlertID  string          `json:"alertId"`
	Center   domain.LatLng   `json:"center"`
	Severity domain.Severity `json:"severity"`
	Style    Style           `json:"style"`
}

// Circles returns the overlay for the latest system alerts, newest first.
// Alerts without a location are skipped; they have nothing to draw.
func Circles(alerts *store.Store) []Circle {
	systems := alerts.SystemAlerts()

	out := make([]Circle, 0, maxCircles)
	for _, item := range systems {
		if len(out) == maxCircles {
			break
		}
		if item.Location == (domain.LatLng{}) {
			continue
		}
		out = append(out, Circle{
			AlertID:  item.ID,
			Center:   item.Location,
			Severity: item.Severity,
			Style:    styleFor(item.Severity),
		})
	}
	return out
}
