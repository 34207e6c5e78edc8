// Package camera holds the map-camera control registry. The map view
// registers its focus function at startup; list rows and toasts invoke it for
// tap-to-zoom. An explicit registry owned by the composition root replaces
// any hidden global.
package camera

import "sync"

// Focus moves the map camera to a coordinate at the given zoom level.
type Focus func(lat, lng, zoom float64)

// Registry is a single-slot holder for the active map camera.
type Registry struct {
	mu    sync.Mutex
	focus Focus
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register installs the camera control, replacing any previous one.
func (r *Registry) Register(f Focus) {
	r.mu.Lock()
	r.focus = f
	r.mu.Unlock()
}

// Unregister removes the camera control, typically on map teardown.
func (r *Registry) Unregister() {
	r.mu.Lock()
	r.focus = nil
	r.mu.Unlock()
}

// Invoke calls the registered camera control. Returns false when no camera
// is registered; callers treat that as a no-op, not an error.
func (r *Registry) Invoke(lat, lng, zoom float64) bool {
	r.mu.Lock()
	f := r.focus
	r.mu.Unlock()

	if f == nil {
		return false
	}
	f(lat, lng, zoom)
	return true
}
