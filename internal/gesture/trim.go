package gesture

import (
	"errors"
	"log/slog"

	"github.com/framecut/framecut/internal/editor"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/snap"
	"github.com/framecut/framecut/internal/timeline"
	"github.com/framecut/framecut/internal/trackops"
)

// TrimSide selects which edge of the selected items a trim moves.
type TrimSide int

const (
	TrimLeft TrimSide = iota
	TrimRight
)

// ErrNotAdjacent is returned when a roll edit is requested on two items
// that are not exactly edge-adjacent on one track.
var ErrNotAdjacent = errors.New("items are not edge-adjacent")

type trimOrigin struct {
	from     int
	duration int
}

// Trim is one active trim or roll-edit gesture. Interim ticks update
// the document without touching the undo stack; only End commits.
type Trim struct {
	store  *editor.Store
	ui     *editor.UIService
	logger *slog.Logger

	side   TrimSide
	ids    []string
	pair   *trackops.RollEditPair
	origin PointerEvent
	lastEv PointerEvent
	orig   map[string]trimOrigin
	points []snap.Point

	Moves Coalescer
}

// BeginExtend opens a single-edge trim over the current selection,
// marking every selected item as being trimmed with its precomputed
// extent bounds (which drive the visual max-extent indicator).
func BeginExtend(store *editor.Store, ui *editor.UIService, side TrimSide, ev PointerEvent, logger *slog.Logger) *Trim {
	t := &Trim{
		store:  store,
		ui:     ui,
		logger: logger,
		side:   side,
		origin: ev,
		lastEv: ev,
		orig:   map[string]trimOrigin{},
	}

	store.SetState(func(st editor.State) editor.State {
		t.ids = append([]string{}, st.SelectedItems...)
		bounds := map[string]editor.TrimBounds{}
		exclude := map[string]bool{}
		for _, id := range t.ids {
			it, ok := st.Doc.Items[id]
			if !ok {
				continue
			}
			exclude[id] = true
			t.orig[id] = trimOrigin{from: it.From, duration: it.DurationInFrames}
			b := trackops.ExtendBounds(st.Doc, id, nil)
			bounds[id] = editor.TrimBounds{
				MinFrom:             b.MinFrom,
				MaxDurationInFrames: maxDuration(it, b, side),
			}
		}
		t.points = snap.Collect(st.Doc.Tracks, st.Doc.Items, exclude)
		return st.WithTrimming(bounds)
	}, false)

	if ui != nil {
		ui.SetCursor(editor.CursorColResize)
	}
	return t
}

func maxDuration(it *timeline.Item, b trackops.Bounds, side TrimSide) int {
	if side == TrimLeft {
		return it.End() - b.MinFrom
	}
	return b.MaxEnd - it.From
}

// BeginRoll opens a roll edit on a precomputed adjacency: an ordered
// pair of items exactly edge-adjacent on one track.
func BeginRoll(store *editor.Store, ui *editor.UIService, leftID, rightID string, ev PointerEvent, logger *slog.Logger) (*Trim, error) {
	st := store.State()
	pair, ok := trackops.FindRollEditPair(st.Doc, leftID, rightID)
	if !ok {
		return nil, ErrNotAdjacent
	}

	t := &Trim{
		store:  store,
		ui:     ui,
		logger: logger,
		pair:   &pair,
		ids:    []string{leftID, rightID},
		origin: ev,
		lastEv: ev,
		orig:   map[string]trimOrigin{},
	}

	store.SetState(func(st editor.State) editor.State {
		bounds := map[string]editor.TrimBounds{}
		left := st.Doc.Items[leftID]
		right := st.Doc.Items[rightID]
		t.orig[leftID] = trimOrigin{from: left.From, duration: left.DurationInFrames}
		t.orig[rightID] = trimOrigin{from: right.From, duration: right.DurationInFrames}

		lb := trackops.ExtendBounds(st.Doc, leftID, map[string]bool{rightID: true})
		rb := trackops.ExtendBounds(st.Doc, rightID, map[string]bool{leftID: true})
		bounds[leftID] = editor.TrimBounds{MinFrom: lb.MinFrom, MaxDurationInFrames: lb.MaxEnd - left.From}
		bounds[rightID] = editor.TrimBounds{MinFrom: rb.MinFrom, MaxDurationInFrames: right.End() - rb.MinFrom}

		t.points = snap.Collect(st.Doc.Tracks, st.Doc.Items, map[string]bool{leftID: true, rightID: true})
		return st.WithTrimming(bounds)
	}, false)

	if ui != nil {
		ui.SetCursor(editor.CursorColResize)
	}
	return t, nil
}

// Tick drains the coalescer and processes the latest pending move.
func (t *Trim) Tick() {
	if ev, ok := t.Moves.Take(); ok {
		t.Move(ev)
	}
}

// Move applies the trim for one pointer position as a non-committing
// update. The gesture is validated against neighbor and asset bounds
// before snapping: snapping is only attempted while the raw offset
// remains structurally valid, otherwise the offset is clamped and the
// snap skipped.
func (t *Trim) Move(ev PointerEvent) {
	t.lastEv = ev
	st := t.store.State()
	offset := geometry.PixelsToFrames(ev.contentX()-t.origin.contentX(), st.Prefs.PixelsPerFrame)

	if t.pair != nil {
		t.moveRoll(st, offset)
		return
	}
	t.moveExtend(st, offset)
}

func (t *Trim) moveExtend(st editor.State, offset int) {
	opts := snapOptions(st.Prefs)

	valid := true
	for _, id := range t.ids {
		bounds, ok := st.TrimmingItems[id]
		if !ok {
			continue
		}
		o := t.orig[id]
		if t.side == TrimLeft {
			target := o.from + offset
			if target < bounds.MinFrom || target > o.from+o.duration-1 {
				valid = false
			}
		} else {
			end := o.from + o.duration + offset
			if end > o.from+bounds.MaxDurationInFrames || end < o.from+1 {
				valid = false
			}
		}
	}

	var snapped *snap.Point
	if valid {
		offset, snapped = t.snapOffset(offset, opts)
	}

	t.store.SetState(func(st editor.State) editor.State {
		doc := st.Doc
		for _, id := range t.ids {
			it, ok := doc.Items[id]
			if !ok {
				continue
			}
			o := t.orig[id]
			if t.side == TrimLeft {
				delta := (o.from + offset) - it.From
				doc = trackops.ExtendLeft(doc, id, delta, nil)
			} else {
				delta := (o.from + o.duration + offset) - it.End()
				doc = trackops.ExtendRight(doc, id, delta, nil)
			}
		}
		st.Doc = doc
		st.ActiveSnapPoint = snapped
		return st
	}, false)
}

func (t *Trim) moveRoll(st editor.State, offset int) {
	pair := *t.pair
	opts := snapOptions(st.Prefs)

	origBoundary := t.orig[pair.LeftID].from + t.orig[pair.LeftID].duration
	min, max := trackops.RollEditOffsetBounds(st.Doc, pair)
	currentBoundary := origBoundary
	if left, ok := st.Doc.Items[pair.LeftID]; ok {
		currentBoundary = left.End()
	}

	target := origBoundary + offset
	valid := target >= currentBoundary+min && target <= currentBoundary+max

	var snapped *snap.Point
	if valid && opts.Enabled {
		if frame, p := snap.Apply(target, t.points, opts); p != nil {
			target = frame
			snapped = p
		}
	}

	t.store.SetState(func(st editor.State) editor.State {
		delta := target - currentBoundary
		st.Doc = trackops.RollEdit(st.Doc, pair, delta)
		st.ActiveSnapPoint = snapped
		return st
	}, false)
}

// snapOffset snaps the moving edges of the trimmed items and returns
// the adjusted offset plus the winning point.
func (t *Trim) snapOffset(offset int, opts snap.Options) (int, *snap.Point) {
	edges := make([]snap.Edge, 0, len(t.ids))
	for _, id := range t.ids {
		o := t.orig[id]
		frame := o.from + offset
		if t.side == TrimRight {
			frame = o.from + o.duration + offset
		}
		edges = append(edges, snap.Edge{ItemID: id, Frame: frame})
	}
	off, winner, ok := snap.BestForEdges(edges, t.points, opts)
	if !ok {
		return offset, nil
	}
	return offset + off, winner
}

// HandleScroll re-derives the trim from the latest pointer position
// after the timeline scrolled during the gesture.
func (t *Trim) HandleScroll(scrollLeft, scrollTop float64) {
	ev := t.lastEv
	ev.ScrollLeft = scrollLeft
	ev.ScrollTop = scrollTop
	t.Move(ev)
}

// End processes the release position synchronously, clears the trim
// markers and commits the result as one history entry.
func (t *Trim) End(ev PointerEvent) {
	t.Move(ev)
	if t.ui != nil {
		t.ui.ResetCursor()
	}
	t.store.SetState(func(st editor.State) editor.State {
		st = st.WithTrimming(nil)
		st.ActiveSnapPoint = nil
		return st
	}, true)
}
