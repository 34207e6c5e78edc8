// Package store holds the alert lists and the transient last-alert pointers
// that drive toast notifications. All mutations are serialized by an internal
// mutex; subscriber callbacks run outside the lock so they may call back into
// the store.
package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
	"github.com/couchcryptid/field-report-alerts/internal/observability"
)

const (
	defaultDebounce    = 200 * time.Millisecond
	defaultDedupWindow = time.Second
)

// AlertFields carries the caller-supplied portion of a new alert. The store
// assigns the id and timestamp.
type AlertFields struct {
	Title    domain.Text
	Subtitle domain.Text
	PhotoURI string
	Severity domain.Severity
	Location domain.LatLng
}

// EventKind identifies what changed in the store.
type EventKind int

const (
	EventUserAdded EventKind = iota
	EventSystemAdded
	EventUserSubtitleUpdated
	EventUserConsumed
	EventSystemConsumed
	EventCleared
)

// Event describes one store mutation. Alert is populated for added and
// subtitle-updated events.
type Event struct {
	Kind  EventKind
	Alert domain.AlertItem
}

// Options configures a Store. Zero-value fields pick defaults; a nil Blobs
// disables persistence entirely.
type Options struct {
	Blobs            BlobStore
	SnapshotDebounce time.Duration
	DedupWindow      time.Duration
	Clock            clockwork.Clock
	Logger           *slog.Logger
	Metrics          *observability.Metrics
}

// Store is the single source of truth for user and system alerts.
type Store struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	blobs    BlobStore
	debounce time.Duration
	window   time.Duration

	mu           sync.Mutex
	userAlerts   []domain.AlertItem
	systemAlerts []domain.AlertItem
	lastUser     *domain.AlertItem
	lastSystem   *domain.AlertItem
	loaded       bool
	dirty        bool
	closed       bool

	lastSubmitKey string
	lastSubmitAt  time.Time
	lastSubmitID  string

	saveTimer clockwork.Timer
	subs      map[int]func(Event)
	nextSub   int
}

// New builds a Store. Call Load before serving traffic so the snapshot or
// bundled seed is in place.
func New(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	if opts.SnapshotDebounce <= 0 {
		opts.SnapshotDebounce = defaultDebounce
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = defaultDedupWindow
	}

	return &Store{
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		clock:    opts.Clock,
		blobs:    opts.Blobs,
		debounce: opts.SnapshotDebounce,
		window:   opts.DedupWindow,
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe registers a callback invoked after every mutation, outside the
// store lock. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// AddUserAlert creates a user alert and returns its id. A submission whose
// payload matches the immediately preceding one within the dedup window is
// absorbed: the previous id is returned and no new item is stored.
func (s *Store) AddUserAlert(f AlertFields) string {
	now := s.clock.Now()
	key := submitKey(f)

	s.mu.Lock()
	if key == s.lastSubmitKey && now.Sub(s.lastSubmitAt) < s.window {
		id := s.lastSubmitID
		s.mu.Unlock()
		s.metrics.DedupDropped.Inc()
		s.logger.Debug("duplicate submission absorbed", "id", id)
		return id
	}

	item := s.newItem("ua_", f, now)
	s.userAlerts = append([]domain.AlertItem{item}, s.userAlerts...)
	last := item
	s.lastUser = &last
	s.lastSubmitKey = key
	s.lastSubmitAt = now
	s.lastSubmitID = item.ID
	s.dirty = true
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.metrics.AlertsCreated.WithLabelValues("user").Inc()
	s.notify(Event{Kind: EventUserAdded, Alert: item})
	return item.ID
}

// AddSystemAlert creates a system alert and returns its id. No dedup applies.
func (s *Store) AddSystemAlert(f AlertFields) string {
	now := s.clock.Now()

	s.mu.Lock()
	item := s.newItem("sa_", f, now)
	s.systemAlerts = append([]domain.AlertItem{item}, s.systemAlerts...)
	last := item
	s.lastSystem = &last
	s.dirty = true
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.metrics.AlertsCreated.WithLabelValues("system").Inc()
	s.notify(Event{Kind: EventSystemAdded, Alert: item})
	return item.ID
}

// UpdateUserAlertSubtitle replaces the subtitle of the matching user alert in
// place. If that alert is the current last-user pointer, the pointer's
// subtitle follows without re-triggering a toast. Returns false when the id
// is unknown.
func (s *Store) UpdateUserAlertSubtitle(id string, subtitle domain.Text) bool {
	s.mu.Lock()
	var updated *domain.AlertItem
	for i := range s.userAlerts {
		if s.userAlerts[i].ID == id {
			s.userAlerts[i].Subtitle = subtitle
			item := s.userAlerts[i]
			updated = &item
			break
		}
	}
	if updated == nil {
		s.mu.Unlock()
		return false
	}
	if s.lastUser != nil && s.lastUser.ID == id {
		s.lastUser.Subtitle = subtitle
	}
	s.dirty = true
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.metrics.SubtitleUpdates.Inc()
	s.notify(Event{Kind: EventUserSubtitleUpdated, Alert: *updated})
	return true
}

// ConsumeLastUserAlert clears the last-user pointer. Idempotent.
func (s *Store) ConsumeLastUserAlert() {
	s.mu.Lock()
	had := s.lastUser != nil
	s.lastUser = nil
	s.mu.Unlock()

	if had {
		s.notify(Event{Kind: EventUserConsumed})
	}
}

// ConsumeLastSystemAlert clears the last-system pointer. Idempotent.
func (s *Store) ConsumeLastSystemAlert() {
	s.mu.Lock()
	had := s.lastSystem != nil
	s.lastSystem = nil
	s.mu.Unlock()

	if had {
		s.notify(Event{Kind: EventSystemConsumed})
	}
}

// LastUserAlert returns the last-user pointer, if set.
func (s *Store) LastUserAlert() (domain.AlertItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUser == nil {
		return domain.AlertItem{}, false
	}
	return *s.lastUser, true
}

// LastSystemAlert returns the last-system pointer, if set.
func (s *Store) LastSystemAlert() (domain.AlertItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSystem == nil {
		return domain.AlertItem{}, false
	}
	return *s.lastSystem, true
}

// UserAlerts returns a copy of the user list, newest first.
func (s *Store) UserAlerts() []domain.AlertItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AlertItem(nil), s.userAlerts...)
}

// SystemAlerts returns a copy of the system list, newest first.
func (s *Store) SystemAlerts() []domain.AlertItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AlertItem(nil), s.systemAlerts...)
}

// Clear drops both lists and both pointers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.userAlerts = nil
	s.systemAlerts = nil
	s.lastUser = nil
	s.lastSystem = nil
	s.dirty = true
	s.scheduleSaveLocked()
	s.mu.Unlock()

	s.notify(Event{Kind: EventCleared})
}

// Loaded reports whether Load has completed. Used for readiness.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) newItem(prefix string, f AlertFields, now time.Time) domain.AlertItem {
	sev := f.Severity
	if !sev.Valid() {
		s.logger.Warn("invalid severity coerced to yellow", "severity", string(sev))
		sev = domain.SeverityYellow
	}
	return domain.AlertItem{
		ID:        prefix + uuid.NewString(),
		Title:     f.Title,
		Subtitle:  f.Subtitle,
		PhotoURI:  f.PhotoURI,
		Severity:  sev,
		Location:  f.Location,
		Timestamp: now,
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// submitKey builds the composite dedup key. fmt prints map params in sorted
// key order, so equal payloads always yield equal keys.
func submitKey(f AlertFields) string {
	return fmt.Sprintf("%v|%v|%s|%s|%.6f,%.6f",
		f.Title, f.Subtitle, f.PhotoURI, f.Severity,
		f.Location.Latitude, f.Location.Longitude)
}
