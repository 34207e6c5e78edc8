package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
)

// ErrNotFound is returned by BlobStore implementations when the key has no
// stored value.
var ErrNotFound = errors.New("blob not found")

// BlobStore is the device-local key-value persistence the store snapshots
// into. Get returns ErrNotFound when the key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

const (
	snapshotKey     = "alerts/v2"
	snapshotVersion = 2

	saveTimeout = 2 * time.Second
)

type snapshot struct {
	Version      int                `json:"version"`
	UserAlerts   []domain.AlertItem `json:"userAlerts"`
	SystemAlerts []domain.AlertItem `json:"systemAlerts"`
}

// Load populates the store from the persisted snapshot, or from the bundled
// seed when no usable snapshot exists. Storage and parse failures degrade to
// the seed; they are logged, never propagated.
func (s *Store) Load(ctx context.Context) {
	users, systems := s.loadSnapshot(ctx)
	if systems == nil && users == nil {
		seeded, err := seedAlerts(s.clock.Now())
		if err != nil {
			s.logger.Error("bundled seed unreadable", "error", err)
		}
		systems = seeded
	}

	s.mu.Lock()
	s.userAlerts = users
	s.systemAlerts = systems
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("alerts loaded",
		"user_alerts", len(users), "system_alerts", len(systems))
}

func (s *Store) loadSnapshot(ctx context.Context) (users, systems []domain.AlertItem) {
	if s.blobs == nil {
		return nil, nil
	}

	data, err := s.blobs.Get(ctx, snapshotKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Warn("snapshot read failed, using seed", "error", err)
		return nil, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Warn("snapshot malformed, using seed", "error", err)
		return nil, nil
	}
	if snap.Version != snapshotVersion {
		s.logger.Warn("snapshot version mismatch, using seed",
			"found", snap.Version, "want", snapshotVersion)
		return nil, nil
	}
	return snap.UserAlerts, snap.SystemAlerts
}

// Close flushes any pending debounced write and stops the save timer.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	pending := s.dirty
	s.mu.Unlock()

	if pending {
		s.save(ctx)
	}
}

// scheduleSaveLocked restarts the debounce timer. Caller holds s.mu.
func (s *Store) scheduleSaveLocked() {
	if s.blobs == nil || s.closed {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = s.clock.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		s.save(ctx)
	})
}

func (s *Store) save(ctx context.Context) {
	if s.blobs == nil {
		return
	}

	// Empty lists marshal as [] rather than null, so a deliberately cleared
	// state is not mistaken for "no snapshot" on the next load.
	s.mu.Lock()
	snap := snapshot{
		Version:      snapshotVersion,
		UserAlerts:   append([]domain.AlertItem{}, s.userAlerts...),
		SystemAlerts: append([]domain.AlertItem{}, s.systemAlerts...),
	}
	s.dirty = false
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Error("snapshot marshal failed", "error", err)
		return
	}
	if err := s.blobs.Set(ctx, snapshotKey, data); err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Warn("snapshot save failed", "error", err)
		return
	}
	s.metrics.SnapshotSaves.Inc()
}
