package sectionnav

import (
	"math"
	"sync"
)

// DefaultHeaderOffset is the clearance kept above a section after a menu click,
// matching the height of the sticky header and section menu.
const DefaultHeaderOffset float64 = 180

// Observer watches section elements for viewport intersection.
// Observe reports false when no element with that id exists.
type Observer interface {
	Observe(id string) bool
	Unobserve(id string)
	Disconnect()
}

// Entry is one intersection report.
type Entry struct {
	ID           string
	Intersecting bool
	Ratio        float64
}

// Geometry carries the layout measurements needed to scroll to a section.
// ElementTop and ContainerTop are viewport-relative bounding-box tops.
type Geometry struct {
	ElementTop   float64
	PageYOffset  float64
	InContainer  bool
	ContainerTop float64
}

// ScrollCommand is a smooth scroll request for the window or the custom container.
type ScrollCommand struct {
	Container bool
	Top       float64
	Smooth    bool
}

// Tracker selects the active section from intersection reports.
type Tracker struct {
	mu           sync.Mutex
	headerOffset float64
	ids          []string
	observer     Observer
	observed     []string
	active       string
	degraded     bool
}

// NewTracker returns a tracker using DefaultHeaderOffset.
func NewTracker() *Tracker {
	return &Tracker{headerOffset: DefaultHeaderOffset}
}

// WithHeaderOffset overrides the scroll clearance.
func (t *Tracker) WithHeaderOffset(px float64) *Tracker {
	t.mu.Lock()
	t.headerOffset = px
	t.mu.Unlock()
	return t
}

// HeaderOffset returns the scroll clearance in pixels.
func (t *Tracker) HeaderOffset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.headerOffset
}

// Mount starts watching ids, releasing any previous observation first.
// A nil observer leaves the tracker degraded: links keep working but no
// section is ever highlighted.
func (t *Tracker) Mount(ids []string, obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardownLocked()
	t.ids = append([]string(nil), ids...)
	t.active = ""
	if obs == nil {
		t.degraded = true
		return
	}
	t.degraded = false
	t.observer = obs
	for _, id := range t.ids {
		if obs.Observe(id) {
			t.observed = append(t.observed, id)
		}
	}
}

// Degraded reports whether intersection observation is unavailable.
func (t *Tracker) Degraded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.degraded
}

// Observe applies an intersection report and returns the active id. The most
// visible intersecting section wins; ties keep the earliest entry. When nothing
// intersects, the previous section stays active.
func (t *Tracker) Observe(entries []Entry) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.degraded || t.observer == nil {
		return t.active
	}
	best, found := Entry{}, false
	for _, e := range entries {
		if !e.Intersecting || e.ID == "" {
			continue
		}
		if !found || e.Ratio > best.Ratio {
			best, found = e, true
		}
	}
	if found {
		t.active = best.ID
	}
	return t.active
}

// Active returns the highlighted section id, or "" before any report.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// ScrollTo computes the scroll needed to bring id under the header. It leaves
// the active section alone; only a later intersection report moves it.
// ok is false for ids that were not mounted.
func (t *Tracker) ScrollTo(id string, g Geometry) (ScrollCommand, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mountedLocked(id) {
		return ScrollCommand{}, false
	}
	if g.InContainer {
		return ScrollCommand{Container: true, Top: g.ElementTop - g.ContainerTop - t.headerOffset, Smooth: true}, true
	}
	top := math.Max(0, g.ElementTop+g.PageYOffset-t.headerOffset)
	return ScrollCommand{Top: top, Smooth: true}, true
}

// Teardown stops all observation. It is safe to call more than once.
func (t *Tracker) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardownLocked()
}

func (t *Tracker) teardownLocked() {
	if t.observer == nil {
		return
	}
	for _, id := range t.observed {
		t.observer.Unobserve(id)
	}
	t.observer.Disconnect()
	t.observer = nil
	t.observed = nil
}

func (t *Tracker) mountedLocked(id string) bool {
	for _, known := range t.ids {
		if known == id {
			return true
		}
	}
	return false
}
