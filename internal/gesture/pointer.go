// Package gesture drives the pointer-driven interactive edits: drags,
// single-edge trims and roll edits. Each gesture is a small state
// machine fed by pointer-down, coalesced pointer-moves and a final
// pointer-up that is always processed synchronously.
package gesture

import (
	"sync"

	"github.com/framecut/framecut/internal/editor"
	"github.com/framecut/framecut/internal/snap"
)

// PointerEvent is one pointer sample in the timeline's scroll
// container: viewport-relative coordinates plus the container's scroll
// offsets at that moment. Content coordinates are X+ScrollLeft and
// Y+ScrollTop, which is what keeps gestures correct while the timeline
// auto-scrolls under a stationary pointer.
type PointerEvent struct {
	X          float64
	Y          float64
	ScrollLeft float64
	ScrollTop  float64
}

func (e PointerEvent) contentX() float64 { return e.X + e.ScrollLeft }
func (e PointerEvent) contentY() float64 { return e.Y + e.ScrollTop }

// Modifiers are the keyboard modifiers active at pointer-down.
type Modifiers struct {
	Shift bool
	Meta  bool
}

// Coalescer keeps at most one pending pointer-move per gesture: a new
// event overwrites the pending payload instead of queuing, matching an
// animation-frame-throttled callback. Pointer-up must never go through
// the coalescer.
type Coalescer struct {
	mu      sync.Mutex
	pending *PointerEvent
}

// Submit stores the event as the pending payload, replacing any event
// not yet taken.
func (c *Coalescer) Submit(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &ev
}

// Take pops the pending event, if any.
func (c *Coalescer) Take() (PointerEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PointerEvent{}, false
	}
	ev := *c.pending
	c.pending = nil
	return ev, true
}

// snapOptions derives the gesture's snap configuration from the
// editor preferences.
func snapOptions(p editor.Prefs) snap.Options {
	return snap.Options{
		Enabled:        p.SnappingEnabled,
		ThresholdPx:    p.SnapThresholdPx,
		PixelsPerFrame: p.PixelsPerFrame,
	}
}
