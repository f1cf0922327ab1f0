package trackops

import (
	"sort"

	"github.com/framecut/framecut/internal/timeline"
)

// PastePoint re-centers pasted items under a pointer position instead
// of anchoring the batch at the playhead.
type PastePoint struct {
	Frame int
}

// PasteItems inserts copies of a clipboard batch. The batch is
// re-anchored at the playhead frame preserving the relative horizontal
// offsets between items; with a PastePoint each item is instead
// centered under that frame. Items are inserted in reverse order so the
// resulting z-order (front-most last inserted lands on top) matches the
// original copy. Returns the new ids in the batch's original order.
func PasteItems(doc *timeline.Document, clipboard []*timeline.Item, playheadFrame int, at *PastePoint) (*timeline.Document, []string) {
	if len(clipboard) == 0 {
		return doc, nil
	}

	minFrom := clipboard[0].From
	for _, it := range clipboard[1:] {
		if it.From < minFrom {
			minFrom = it.From
		}
	}
	offset := playheadFrame - minFrom

	copies := make([]*timeline.Item, len(clipboard))
	newIDs := make([]string, len(clipboard))
	for i, src := range clipboard {
		cp := *src
		cp.ID = timeline.NewID()
		cp.IsDraggingInTimeline = false
		if at != nil {
			cp.From = at.Frame - cp.DurationInFrames/2
		} else {
			cp.From = src.From + offset
		}
		if cp.From < 0 {
			cp.From = 0
		}
		copies[i] = &cp
		newIDs[i] = cp.ID
	}

	nd := doc
	for i := len(copies) - 1; i >= 0; i-- {
		cp := copies[i]
		space := FindSpaceForItem(nd, cp.From, cp.DurationInFrames, PlaceFront, 0, false, nil)
		nd = AddItem(nd, cp, space)
	}
	return nd, newIDs
}

// SortedTrackItems returns a track's items ordered by start frame.
func SortedTrackItems(doc *timeline.Document, trackIndex int, ignore map[string]bool) []*timeline.Item {
	items := doc.TrackItems(trackIndex, ignore)
	sort.Slice(items, func(i, j int) bool { return items[i].From < items[j].From })
	return items
}
