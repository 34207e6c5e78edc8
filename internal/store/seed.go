package store

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	SystemAlerts []seedAlert `yaml:"systemAlerts"`
}

type seedAlert struct {
	ID          string  `yaml:"id"`
	TitleKey    string  `yaml:"titleKey"`
	SubtitleKey string  `yaml:"subtitleKey"`
	Severity    string  `yaml:"severity"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	AgeMinutes  int     `yaml:"ageMinutes"`
}

// seedAlerts builds the bundled system alerts shown before any real state
// exists. Seed timestamps are relative ages, anchored to now at load time.
func seedAlerts(now time.Time) ([]domain.AlertItem, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	items := make([]domain.AlertItem, 0, len(f.SystemAlerts))
	for _, sa := range f.SystemAlerts {
		sev := domain.Severity(sa.Severity)
		if !sev.Valid() {
			return nil, fmt.Errorf("seed alert %s: invalid severity %q", sa.ID, sa.Severity)
		}
		items = append(items, domain.AlertItem{
			ID:        sa.ID,
			Title:     domain.Keyed(sa.TitleKey),
			Subtitle:  domain.Keyed(sa.SubtitleKey),
			Severity:  sev,
			Location:  domain.LatLng{Latitude: sa.Latitude, Longitude: sa.Longitude},
			Timestamp: now.Add(-time.Duration(sa.AgeMinutes) * time.Minute),
		})
	}
	return items, nil
}
