package gesture

import (
	"log/slog"
	"math"
	"sort"

	"github.com/framecut/framecut/internal/editor"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/snap"
	"github.com/framecut/framecut/internal/timeline"
)

// Track-offset resolution constants, in pixels. The divider drop zone
// is the band straddling the midpoint between adjacent tracks; the
// hysteresis keeps a plain click from registering as a vertical move.
const (
	dividerBandPx = 8.0
	hysteresisPx  = 5.0
)

type trackOffsetKind int

const (
	offsetMove trackOffsetKind = iota
	offsetInsertBetween
	offsetCreateTop
	offsetCreateBottom
)

type trackOffset struct {
	kind        trackOffsetKind
	rows        int
	insertIndex int
}

// ItemPosition is one item's tentative or final placement.
type ItemPosition struct {
	From       int
	TrackIndex int
}

// TrackInsertion describes new tracks spliced in on commit.
type TrackInsertion struct {
	Index int
	Count int
}

// Preview is the last valid result of a drag tick. It is not part of
// the document until the gesture commits.
type Preview struct {
	Positions map[string]ItemPosition
	Insertion *TrackInsertion
	SnapPoint *snap.Point
}

// Drag is one active drag gesture over the current drag set.
type Drag struct {
	store  *editor.Store
	ui     *editor.UIService
	logger *slog.Logger

	ids     []string
	idSet   map[string]bool
	origin  PointerEvent
	lastEv  PointerEvent
	orig    map[string]ItemPosition
	points  []snap.Point
	preview *Preview

	Moves Coalescer
}

// BeginDrag resolves the selection for a pointer-down on an item and
// opens a drag gesture over the resulting drag set. A shift/meta click
// toggles membership; a plain click on an already-selected item keeps
// the selection so the whole group drags. The drag set is the full
// selection when the clicked item ends up selected, otherwise the
// gesture is selection-only and moves nothing.
func BeginDrag(store *editor.Store, ui *editor.UIService, clickedID string, mods Modifiers, ev PointerEvent, logger *slog.Logger) *Drag {
	var ids []string
	store.SetState(func(st editor.State) editor.State {
		st = st.WithSelection(resolveSelection(st, clickedID, mods))
		if st.IsSelected(clickedID) {
			ids = append([]string{}, st.SelectedItems...)
		}
		return st
	}, false)

	d := &Drag{
		store:  store,
		ui:     ui,
		logger: logger,
		ids:    ids,
		idSet:  map[string]bool{},
		origin: ev,
		lastEv: ev,
		orig:   map[string]ItemPosition{},
	}
	for _, id := range ids {
		d.idSet[id] = true
	}

	st := store.State()
	for _, id := range ids {
		it, ok := st.Doc.Items[id]
		if !ok {
			continue
		}
		d.orig[id] = ItemPosition{From: it.From, TrackIndex: st.Doc.TrackOf(id)}
	}
	d.points = snap.Collect(st.Doc.Tracks, st.Doc.Items, d.idSet)

	if len(ids) > 0 {
		d.markDragging(true)
		if ui != nil {
			ui.SetCursor(editor.CursorGrabbing)
		}
	}
	return d
}

func resolveSelection(st editor.State, clickedID string, mods Modifiers) []string {
	if mods.Shift || mods.Meta {
		if st.IsSelected(clickedID) {
			kept := make([]string, 0, len(st.SelectedItems))
			for _, id := range st.SelectedItems {
				if id != clickedID {
					kept = append(kept, id)
				}
			}
			return kept
		}
		return append(append([]string{}, st.SelectedItems...), clickedID)
	}
	if st.IsSelected(clickedID) {
		return st.SelectedItems
	}
	return []string{clickedID}
}

// Tick drains the coalescer and processes the latest pending move.
func (d *Drag) Tick() bool {
	ev, ok := d.Moves.Take()
	if !ok {
		return d.preview != nil
	}
	return d.Move(ev)
}

// Move computes the preview for one pointer position. Returns false
// when no valid non-overlapping placement exists for this tick; the
// previous valid preview (or none) persists and the cursor shows
// not-allowed.
func (d *Drag) Move(ev PointerEvent) bool {
	d.lastEv = ev
	if len(d.ids) == 0 {
		return false
	}

	st := d.store.State()
	doc := st.Doc

	frameOffset := geometry.PixelsToFrames(ev.contentX()-d.origin.contentX(), st.Prefs.PixelsPerFrame)
	frameOffset = d.clampToZero(frameOffset)

	opts := snapOptions(st.Prefs)
	var snapped *snap.Point
	if off, winner, ok := snap.BestForEdges(d.edgesAt(doc, frameOffset), d.points, opts); ok {
		if d.clampToZero(frameOffset+off) == frameOffset+off {
			frameOffset += off
			snapped = winner
		}
	}

	off := d.resolveTrackOffset(doc, ev.contentY()-d.origin.contentY())
	positions, insertion, ok := d.targetPositions(doc, frameOffset, off)
	if !ok {
		if d.ui != nil {
			d.ui.SetCursor(editor.CursorNotAllowed)
		}
		return false
	}

	d.preview = &Preview{Positions: positions, Insertion: insertion, SnapPoint: snapped}
	if d.ui != nil {
		d.ui.SetCursor(editor.CursorGrabbing)
	}
	d.store.SetState(func(st editor.State) editor.State {
		st.ActiveSnapPoint = snapped
		return st
	}, false)
	return true
}

// End processes the release position synchronously and commits the
// final placement as one history entry. A gesture whose last valid
// tick produced no positions is a no-op and the items snap back.
func (d *Drag) End(ev PointerEvent) {
	if len(d.ids) > 0 {
		d.Move(ev)
	}
	preview := d.preview

	d.markDragging(false)
	if d.ui != nil {
		d.ui.ResetCursor()
	}
	if preview == nil {
		d.store.SetState(func(st editor.State) editor.State {
			st.ActiveSnapPoint = nil
			return st
		}, false)
		return
	}

	d.store.SetState(func(st editor.State) editor.State {
		st.Doc = commitDrag(st.Doc, d.idSet, preview)
		st.ActiveSnapPoint = nil
		return st
	}, true)

	if d.logger != nil {
		d.logger.Debug("drag committed", "items", len(d.ids))
	}
	d.preview = nil
}

// Current returns the last valid preview, nil when none exists yet.
func (d *Drag) Current() *Preview {
	return d.preview
}

// HandleScroll re-derives the preview from the latest pointer position
// after the timeline auto-scrolled under it.
func (d *Drag) HandleScroll(scrollLeft, scrollTop float64) {
	ev := d.lastEv
	ev.ScrollLeft = scrollLeft
	ev.ScrollTop = scrollTop
	d.Move(ev)
}

func (d *Drag) markDragging(on bool) {
	d.store.SetState(func(st editor.State) editor.State {
		nd := st.Doc.Clone()
		for id := range d.idSet {
			it, ok := nd.Items[id]
			if !ok {
				continue
			}
			ni := *it
			ni.IsDraggingInTimeline = on
			nd.Items[id] = &ni
		}
		st.Doc = nd
		return st
	}, false)
}

// clampToZero keeps the group's leftmost item at frame zero or later.
func (d *Drag) clampToZero(frameOffset int) int {
	minFrom := math.MaxInt32
	for _, pos := range d.orig {
		if pos.From < minFrom {
			minFrom = pos.From
		}
	}
	if minFrom+frameOffset < 0 {
		return -minFrom
	}
	return frameOffset
}

func (d *Drag) edgesAt(doc *timeline.Document, frameOffset int) []snap.Edge {
	edges := make([]snap.Edge, 0, len(d.ids)*2)
	for _, id := range d.ids {
		it, ok := doc.Items[id]
		if !ok {
			continue
		}
		from := d.orig[id].From + frameOffset
		edges = append(edges,
			snap.Edge{ItemID: id, Frame: from},
			snap.Edge{ItemID: id, Frame: from + it.DurationInFrames},
		)
	}
	return edges
}

// resolveTrackOffset turns the vertical pixel delta into one of the
// four outcomes: a signed row move, an insert-between at a divider, or
// a new track at the top or bottom edge.
func (d *Drag) resolveTrackOffset(doc *timeline.Document, dy float64) trackOffset {
	h := d.store.State().Prefs.TrackHeightPx
	if h <= 0 {
		return trackOffset{kind: offsetMove}
	}
	n := len(doc.Tracks)
	minRow, maxRow := d.rowExtent()
	rowsFloat := dy / h

	if math.Abs(dy) < hysteresisPx {
		return trackOffset{kind: offsetMove}
	}

	// Past the first/last track by more than one track height, and not
	// redundant: a group already holding the full top (bottom) block
	// gains nothing from a new edge track.
	if float64(minRow)+rowsFloat < -1 && !d.occupiesEdgeBlock(doc, true) {
		return trackOffset{kind: offsetCreateTop}
	}
	if float64(maxRow)+rowsFloat > float64(n) && !d.occupiesEdgeBlock(doc, false) {
		return trackOffset{kind: offsetCreateBottom}
	}

	// Divider drop zone: a band straddling the midpoint between two
	// adjacent rows.
	nearestHalf := math.Floor(rowsFloat) + 0.5
	if math.Abs(rowsFloat-nearestHalf)*h <= dividerBandPx {
		anchor := minRow
		if rowsFloat < 0 {
			anchor = maxRow
		}
		idx := anchor + int(math.Floor(rowsFloat)) + 1
		if idx < 0 {
			idx = 0
		}
		if idx > n {
			idx = n
		}
		return trackOffset{kind: offsetInsertBetween, insertIndex: idx}
	}

	rows := int(math.Round(rowsFloat))
	// Dragging down anchors the clamp to the top-most dragged item,
	// dragging up to the bottom-most, so the group stays in bounds.
	if rows > n-1-maxRow {
		rows = n - 1 - maxRow
	}
	if rows < -minRow {
		rows = -minRow
	}
	return trackOffset{kind: offsetMove, rows: rows}
}

func (d *Drag) rowExtent() (minRow, maxRow int) {
	minRow, maxRow = math.MaxInt32, -1
	for _, pos := range d.orig {
		if pos.TrackIndex < minRow {
			minRow = pos.TrackIndex
		}
		if pos.TrackIndex > maxRow {
			maxRow = pos.TrackIndex
		}
	}
	if maxRow < 0 {
		minRow, maxRow = 0, 0
	}
	return minRow, maxRow
}

// occupiesEdgeBlock reports whether the dragged set already fills the
// contiguous block of tracks at the top (or bottom) of the timeline.
func (d *Drag) occupiesEdgeBlock(doc *timeline.Document, top bool) bool {
	n := len(doc.Tracks)
	if n == 0 {
		return false
	}
	minRow, maxRow := d.rowExtent()
	if top && minRow != 0 {
		return false
	}
	if !top && maxRow != n-1 {
		return false
	}
	for i := minRow; i <= maxRow; i++ {
		for _, it := range doc.TrackItems(i, nil) {
			if !d.idSet[it.ID] {
				return false
			}
		}
	}
	return true
}

// targetPositions computes per-item targets for the tick. For moves
// within existing tracks, collisions against non-dragged occupants are
// checked and the group-collision recovery is invoked once; targets on
// freshly inserted tracks are collision-free by construction.
func (d *Drag) targetPositions(doc *timeline.Document, frameOffset int, off trackOffset) (map[string]ItemPosition, *TrackInsertion, bool) {
	positions := map[string]ItemPosition{}

	switch off.kind {
	case offsetMove:
		byTrack := map[int][]string{}
		for _, id := range d.ids {
			target := d.orig[id].TrackIndex + off.rows
			if target < 0 || target >= len(doc.Tracks) {
				return nil, nil, false
			}
			positions[id] = ItemPosition{From: d.orig[id].From + frameOffset, TrackIndex: target}
			byTrack[target] = append(byTrack[target], id)
		}

		virtuals := d.virtualItems(doc, positions, byTrack)
		occupants := func(trackIndex int) []*timeline.Item {
			return doc.TrackItems(trackIndex, d.idSet)
		}
		if groupCollides(virtuals, occupants) {
			shift := geometry.AlternativeForGroupCollision(virtuals, occupants)
			if shift == nil {
				return nil, nil, false
			}
			for id, pos := range positions {
				pos.From += *shift
				positions[id] = pos
			}
		}
		return positions, nil, true

	case offsetInsertBetween, offsetCreateTop, offsetCreateBottom:
		rows := d.distinctRows()
		idx := off.insertIndex
		if off.kind == offsetCreateTop {
			idx = 0
		}
		if off.kind == offsetCreateBottom {
			idx = len(doc.Tracks)
		}
		rank := map[int]int{}
		for i, r := range rows {
			rank[r] = i
		}
		for _, id := range d.ids {
			positions[id] = ItemPosition{
				From:       d.orig[id].From + frameOffset,
				TrackIndex: idx + rank[d.orig[id].TrackIndex],
			}
		}
		return positions, &TrackInsertion{Index: idx, Count: len(rows)}, true

	default:
		return nil, nil, false
	}
}

func (d *Drag) distinctRows() []int {
	seen := map[int]bool{}
	var rows []int
	for _, pos := range d.orig {
		if !seen[pos.TrackIndex] {
			seen[pos.TrackIndex] = true
			rows = append(rows, pos.TrackIndex)
		}
	}
	sort.Ints(rows)
	return rows
}

func (d *Drag) virtualItems(doc *timeline.Document, positions map[string]ItemPosition, byTrack map[int][]string) []geometry.VirtualItem {
	var virtuals []geometry.VirtualItem
	for track, ids := range byTrack {
		from := math.MaxInt32
		end := 0
		for _, id := range ids {
			it := doc.Items[id]
			if it == nil {
				continue
			}
			pos := positions[id]
			if pos.From < from {
				from = pos.From
			}
			if pos.From+it.DurationInFrames > end {
				end = pos.From + it.DurationInFrames
			}
		}
		if end > from {
			virtuals = append(virtuals, geometry.VirtualItem{TrackIndex: track, From: from, Duration: end - from})
		}
	}
	return virtuals
}

func groupCollides(virtuals []geometry.VirtualItem, occupants func(int) []*timeline.Item) bool {
	for _, v := range virtuals {
		for _, other := range occupants(v.TrackIndex) {
			if geometry.Overlaps(other, v.From, v.Duration) {
				return true
			}
		}
	}
	return false
}

// commitDrag merges the final preview into the document atomically:
// splice inserted tracks, relocate dragged items, prune empty tracks.
func commitDrag(doc *timeline.Document, idSet map[string]bool, preview *Preview) *timeline.Document {
	nd := doc.Clone()

	// Drop dragged ids from their current tracks.
	for i, tr := range nd.Tracks {
		kept := make([]string, 0, len(tr.ItemIDs))
		for _, id := range tr.ItemIDs {
			if !idSet[id] {
				kept = append(kept, id)
			}
		}
		tr.ItemIDs = kept
		nd.Tracks[i] = tr
	}

	if ins := preview.Insertion; ins != nil {
		tracks := make([]timeline.Track, 0, len(nd.Tracks)+ins.Count)
		tracks = append(tracks, nd.Tracks[:ins.Index]...)
		for i := 0; i < ins.Count; i++ {
			tracks = append(tracks, timeline.Track{ID: timeline.NewID()})
		}
		tracks = append(tracks, nd.Tracks[ins.Index:]...)
		nd.Tracks = tracks
	}

	for id, pos := range preview.Positions {
		it, ok := nd.Items[id]
		if !ok || pos.TrackIndex < 0 || pos.TrackIndex >= len(nd.Tracks) {
			continue
		}
		ni := *it
		ni.From = pos.From
		ni.IsDraggingInTimeline = false
		nd.Items[id] = &ni
		tr := nd.Tracks[pos.TrackIndex]
		tr.ItemIDs = append(append([]string{}, tr.ItemIDs...), id)
		nd.Tracks[pos.TrackIndex] = tr
	}

	kept := make([]timeline.Track, 0, len(nd.Tracks))
	for _, tr := range nd.Tracks {
		if len(tr.ItemIDs) > 0 {
			kept = append(kept, tr)
		}
	}
	nd.Tracks = kept
	return nd
}
