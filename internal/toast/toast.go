// Package toast drives the transient notification surfaced when an alert
// arrives. One Controller runs per toast kind (user, system), subscribed to
// the store's last-alert pointer.
//
// Phase machine: Idle → Collapsed → Expanded ⇄ Collapsed → Idle. Toggling
// between collapsed and expanded never touches the auto-dismiss timer; only
// a new alert restarts it.
package toast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/field-report-alerts/internal/camera"
	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/observability"
	"github.com/couchcryptid/field-report-alerts/internal/store"
)

// Kind selects which last-alert pointer a controller tracks.
type Kind string

const (
	KindUser   Kind = "user"
	KindSystem Kind = "system"
)

// Phase is the toast's visibility state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollapsed
	PhaseExpanded
)

const (
	// DefaultUserAutoDismiss is how long a user-report toast stays up.
	DefaultUserAutoDismiss = 5500 * time.Millisecond
	// DefaultSystemAutoDismiss is how long a forecast toast stays up.
	DefaultSystemAutoDismiss = 3500 * time.Millisecond

	tapZoomLevel = 17
)

// Snapshot is a point-in-time view of the toast for rendering.
type Snapshot struct {
	Phase Phase
	Alert domain.AlertItem
}

// ExpandedPhoto returns what the expanded toast body shows: the attached
// photo when present, else the localized "no photo" placeholder.
func ExpandedPhoto(item domain.AlertItem) domain.Text {
	if item.PhotoURI != "" {
		return domain.Plain(item.PhotoURI)
	}
	return domain.Keyed("toast.noPhoto")
}

// Options carries a Controller's collaborators. AutoDismiss zero picks the
// per-kind default.
type Options struct {
	Clock       clockwork.Clock
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	AutoDismiss time.Duration
}

// Controller owns the toast state machine for one kind. All store calls are
// made outside the controller lock, so store callbacks may re-enter.
type Controller struct {
	kind    Kind
	alerts  *store.Store
	camera  *camera.Registry
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	dismiss time.Duration

	mu      sync.Mutex
	phase   Phase
	current domain.AlertItem
	timer   clockwork.Timer
	gen     int
	unsub   func()
}

// NewController builds a controller for the given kind. cam may be nil when
// tap-to-zoom is not wired (user toasts).
func NewController(kind Kind, alerts *store.Store, cam *camera.Registry, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if opts.AutoDismiss <= 0 {
		if kind == KindSystem {
			opts.AutoDismiss = DefaultSystemAutoDismiss
		} else {
			opts.AutoDismiss = DefaultUserAutoDismiss
		}
	}
	return &Controller{
		kind:    kind,
		alerts:  alerts,
		camera:  cam,
		clock:   opts.Clock,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		dismiss: opts.AutoDismiss,
	}
}

// Start subscribes to the store and surfaces an alert that arrived before
// the controller came up.
func (c *Controller) Start() {
	c.unsub = c.alerts.Subscribe(c.handleEvent)

	var item domain.AlertItem
	var ok bool
	if c.kind == KindUser {
		item, ok = c.alerts.LastUserAlert()
	} else {
		item, ok = c.alerts.LastSystemAlert()
	}
	if ok {
		c.show(item)
	}
}

// Stop unsubscribes and cancels any pending timer without consuming.
func (c *Controller) Stop() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.mu.Lock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
}

// Snapshot returns the current phase and alert for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Phase: c.phase, Alert: c.current}
}

// Toggle flips between collapsed and expanded. The auto-dismiss timer keeps
// running either way.
func (c *Controller) Toggle() {
	c.mu.Lock()
	switch c.phase {
	case PhaseCollapsed:
		c.phase = PhaseExpanded
	case PhaseExpanded:
		c.phase = PhaseCollapsed
	}
	c.mu.Unlock()
}

// Dismiss is the manual close: hide immediately, cancel the timer, consume.
func (c *Controller) Dismiss() {
	if !c.hide() {
		return
	}
	c.metrics.ToastDismissed.WithLabelValues(string(c.kind), "closed").Inc()
	c.consume()
}

// Tap handles a tap on the toast body. User toasts toggle expansion; system
// toasts zoom the map camera to the alert and dismiss.
func (c *Controller) Tap() {
	if c.kind == KindUser {
		c.Toggle()
		return
	}

	c.mu.Lock()
	if c.phase == PhaseIdle {
		c.mu.Unlock()
		return
	}
	item := c.current
	c.phase = PhaseIdle
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	if c.camera != nil {
		c.camera.Invoke(item.Location.Latitude, item.Location.Longitude, tapZoomLevel)
	}
	c.metrics.ToastDismissed.WithLabelValues(string(c.kind), "tapped").Inc()
	c.consume()
}

func (c *Controller) handleEvent(ev store.Event) {
	switch {
	case ev.Kind == store.EventUserAdded && c.kind == KindUser,
		ev.Kind == store.EventSystemAdded && c.kind == KindSystem:
		c.show(ev.Alert)
	case ev.Kind == store.EventUserSubtitleUpdated && c.kind == KindUser:
		c.refresh(ev.Alert)
	case ev.Kind == store.EventUserConsumed && c.kind == KindUser,
		ev.Kind == store.EventSystemConsumed && c.kind == KindSystem:
		c.hide()
	}
}

// show surfaces a new alert collapsed and restarts the dismiss timer. A new
// alert supersedes the old one; the stale timer's generation is retired so
// it can never consume the newcomer.
func (c *Controller) show(item domain.AlertItem) {
	c.mu.Lock()
	c.current = item
	c.phase = PhaseCollapsed
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.dismiss, func() { c.autoDismiss(gen) })
	c.mu.Unlock()

	c.metrics.ToastShown.WithLabelValues(string(c.kind)).Inc()
}

// refresh rewrites the displayed alert in place, without re-triggering the
// timer. Used when address resolution updates the subtitle.
func (c *Controller) refresh(item domain.AlertItem) {
	c.mu.Lock()
	if c.phase != PhaseIdle && c.current.ID == item.ID {
		c.current = item
	}
	c.mu.Unlock()
}

func (c *Controller) autoDismiss(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.phase == PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseIdle
	c.timer = nil
	c.mu.Unlock()

	c.metrics.ToastDismissed.WithLabelValues(string(c.kind), "auto").Inc()
	c.consume()
}

// hide transitions to idle and cancels the timer. Returns false when
// already idle.
func (c *Controller) hide() bool {
	c.mu.Lock()
	if c.phase == PhaseIdle {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseIdle
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return true
}

func (c *Controller) consume() {
	if c.kind == KindUser {
		c.alerts.ConsumeLastUserAlert()
	} else {
		c.alerts.ConsumeLastSystemAlert()
	}
}
