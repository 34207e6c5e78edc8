// Package report implements the hazard-report submission flow: validate the
// draft, simulate the photo upload with stepped progress, create the user
// alert with a coordinate-label subtitle, then resolve the address in the
// background and rewrite the subtitle once.
package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

const (
	// MaxNoteLen caps the free-text note, in runes.
	MaxNoteLen = 15

	uploadSteps     = 10
	uploadStepDelay = 80 * time.Millisecond

	defaultGeocodeTimeout = 2500 * time.Millisecond
)

// ErrPhotoRequired signals an incomplete draft. The UI surfaces it as a
// validation flag; no store mutation happens.
var ErrPhotoRequired = errors.New("photo is required")

// Draft is a report as composed in the edit screen, before submission.
type Draft struct {
	Note     string
	PhotoURI string
	Severity domain.Severity
	Location domain.LatLng
}

// Validate checks submit preconditions.
func (d Draft) Validate() error {
	if d.PhotoURI == "" {
		return ErrPhotoRequired
	}
	return nil
}

// ClampNote truncates a note to MaxNoteLen runes, mirroring the input cap in
// the edit screen.
func ClampNote(note string) string {
	runes := []rune(note)
	if len(runes) <= MaxNoteLen {
		return note
	}
	return string(runes[:MaxNoteLen])
}

// Options carries the submitter's collaborators. Geocoder may be nil; the
// coordinate label then stays as the subtitle.
type Options struct {
	Geocoder       domain.Geocoder
	GeocodeTimeout time.Duration
	Clock          clockwork.Clock
	Logger         *slog.Logger
}

// Submitter turns drafts into user alerts.
type Submitter struct {
	alerts         *store.Store
	geocoder       domain.Geocoder
	geocodeTimeout time.Duration
	clock          clockwork.Clock
	logger         *slog.Logger
}

func NewSubmitter(alerts *store.Store, opts Options) *Submitter {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.GeocodeTimeout <= 0 {
		opts.GeocodeTimeout = defaultGeocodeTimeout
	}
	return &Submitter{
		alerts:         alerts,
		geocoder:       opts.Geocoder,
		geocodeTimeout: opts.GeocodeTimeout,
		clock:          opts.Clock,
		logger:         opts.Logger,
	}
}

// Submit validates the draft, runs the simulated upload (reporting progress
// in tenths), creates the alert, and kicks off background address
// resolution. Returns the new alert id.
func (s *Submitter) Submit(ctx context.Context, d Draft, progress func(float64)) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	if err := s.simulateUpload(ctx, progress); err != nil {
		return "", err
	}

	note := ClampNote(d.Note)
	title := domain.Plain(note)
	if note == "" {
		title = domain.Keyed("alerts.userReportDefaultTitle")
	}

	id := s.alerts.AddUserAlert(store.AlertFields{
		Title:    title,
		Subtitle: domain.Plain(domain.CoordLabel(d.Location.Latitude, d.Location.Longitude)),
		PhotoURI: d.PhotoURI,
		Severity: d.Severity,
		Location: d.Location,
	})

	if s.geocoder != nil {
		go s.resolveAddress(ctx, id, d.Location)
	}
	return id, nil
}

// simulateUpload advances a progress fraction from 0 to 1 in fixed-delay
// steps. There is no real backend; the delay exists so the UI progress bar
// behaves like an actual upload.
func (s *Submitter) simulateUpload(ctx context.Context, progress func(float64)) error {
	for i := 1; i <= uploadSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(uploadStepDelay):
		}
		if progress != nil {
			progress(float64(i) / uploadSteps)
		}
	}
	return nil
}

// resolveAddress rewrites the alert subtitle once the address resolves.
// Failures and timeouts leave the coordinate label in place; the report
// itself already succeeded.
func (s *Submitter) resolveAddress(ctx context.Context, id string, loc domain.LatLng) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.geocodeTimeout)
	defer cancel()

	result, err := s.geocoder.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.logger.Warn("address resolution failed, keeping coordinate label",
			"alert_id", id, "error", err)
		return
	}
	if result.FormattedAddress == "" {
		return
	}
	s.alerts.UpdateUserAlertSubtitle(id, domain.Plain(result.FormattedAddress))
}
