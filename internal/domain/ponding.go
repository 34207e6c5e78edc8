package domain

import "context"

// Rain classification thresholds, mm/h.
const (
	rainRedThreshold    = 50.0
	rainOrangeThreshold = 30.0
)

// RainLookup returns the current rain rate (mm/h) at a coordinate.
// Supplied by the caller; network failures propagate unmodified.
type RainLookup func(ctx context.Context, lat, lon float64) (float64, error)

// PondingSummary is the result of a ponding risk analysis at a point.
type PondingSummary struct {
	Center       LatLng   `json:"center"`
	RainMmH      float64  `json:"rain_mm_h"`
	PondingIndex float64  `json:"ponding_index"` // 0..1
	Severity     Severity `json:"severity"`
}

// OverlayStyle describes how to draw a risk circle on the map.
type OverlayStyle struct {
	RadiusM float64 `json:"radius_m"`
	Stroke  string  `json:"stroke"`
	Fill    string  `json:"fill"`
}

// pondingPalette maps a severity to its circle colors.
var pondingPalette = map[Severity]OverlayStyle{
	SeverityRed:    {Stroke: "rgba(239,68,68,0.9)", Fill: "rgba(239,68,68,0.28)"},
	SeverityOrange: {Stroke: "rgba(245,158,11,0.9)", Fill: "rgba(245,158,11,0.28)"},
	SeverityYellow: {Stroke: "rgba(234,179,8,0.9)", Fill: "rgba(234,179,8,0.28)"},
}

// ClassifyRain maps a rain rate to a severity: >=50 red, >=30 orange,
// else yellow. Boundaries are inclusive on the >= side.
func ClassifyRain(rainMmH float64) Severity {
	switch {
	case rainMmH >= rainRedThreshold:
		return SeverityRed
	case rainMmH >= rainOrangeThreshold:
		return SeverityOrange
	default:
		return SeverityYellow
	}
}

// PondingIndex normalizes a rain rate into a 0..1 risk score.
func PondingIndex(rainMmH float64) float64 {
	idx := (rainMmH - 10) / 60
	if idx < 0 {
		return 0
	}
	if idx > 1 {
		return 1
	}
	return idx
}

// RunPondingAnalysis samples the rain rate at a coordinate once and derives
// the risk classification plus a map overlay style. A lookup failure is
// returned to the caller unmodified; there is no retry.
func RunPondingAnalysis(ctx context.Context, lat, lon float64, lookup RainLookup, radiusM float64) (PondingSummary, OverlayStyle, error) {
	if radiusM <= 0 {
		radiusM = 500
	}

	rain, err := lookup(ctx, lat, lon)
	if err != nil {
		return PondingSummary{}, OverlayStyle{}, err
	}

	severity := ClassifyRain(rain)

	summary := PondingSummary{
		Center:       LatLng{Latitude: lat, Longitude: lon},
		RainMmH:      rain,
		PondingIndex: PondingIndex(rain),
		Severity:     severity,
	}
	style := pondingPalette[severity]
	style.RadiusM = radiusM

	return summary, style, nil
}
