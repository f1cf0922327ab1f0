package trackops

import (
	"math"

	"github.com/framecut/framecut/internal/timeline"
)

// Bounds holds the extents a trim may reach: the smallest permitted
// start frame and the largest permitted end frame, combining neighbor
// items on the same track with the underlying asset's media range at
// the item's playback rate.
type Bounds struct {
	MinFrom int
	MaxEnd  int
}

const unbounded = math.MaxInt32

// ExtendBounds computes the trim bounds for an item. ignore excludes
// items from the neighbor search, which roll edits use to look past
// their partner item.
func ExtendBounds(doc *timeline.Document, itemID string, ignore map[string]bool) Bounds {
	it, ok := doc.Items[itemID]
	if !ok {
		return Bounds{MinFrom: 0, MaxEnd: unbounded}
	}

	b := Bounds{MinFrom: 0, MaxEnd: unbounded}

	trackIdx := doc.TrackOf(itemID)
	skip := map[string]bool{itemID: true}
	for id := range ignore {
		skip[id] = true
	}
	for _, other := range doc.TrackItems(trackIdx, skip) {
		if other.End() <= it.From && other.End() > b.MinFrom {
			b.MinFrom = other.End()
		}
		if other.From >= it.End() && other.From < b.MaxEnd {
			b.MaxEnd = other.From
		}
	}

	if head, tail, ok := mediaHeadroom(doc, it); ok {
		if min := it.From - head; min > b.MinFrom {
			b.MinFrom = min
		}
		if max := it.End() + tail; max < b.MaxEnd {
			b.MaxEnd = max
		}
	}
	return b
}

// mediaHeadroom returns how many frames the item may grow to the left
// and to the right before running out of source media, at the item's
// playback rate. ok is false for kinds without a finite media range.
func mediaHeadroom(doc *timeline.Document, it *timeline.Item) (head, tail int, ok bool) {
	switch it.Kind {
	case timeline.ItemVideo, timeline.ItemAudio, timeline.ItemCaptions:
	case timeline.ItemImage, timeline.ItemGIF, timeline.ItemText, timeline.ItemSolid:
		// Images and stills have no media range; GIFs loop.
		return 0, 0, false
	default:
		return 0, 0, false
	}

	asset := doc.AssetFor(it)
	if asset == nil {
		return 0, 0, false
	}

	total := asset.DurationInSeconds
	if it.Kind == timeline.ItemCaptions && len(asset.Cues) > 0 {
		total = float64(asset.Cues[len(asset.Cues)-1].EndMs) / 1000
	}
	if total <= 0 {
		return 0, 0, false
	}

	rate := it.Rate()
	framesPerAssetSecond := doc.FPS / rate

	head = int(math.Floor(it.MediaStartInSeconds * framesPerAssetSecond))
	usedSeconds := it.MediaStartInSeconds + float64(it.DurationInFrames)*rate/doc.FPS
	tail = int(math.Floor((total - usedSeconds) * framesPerAssetSecond))
	if head < 0 {
		head = 0
	}
	if tail < 0 {
		tail = 0
	}
	return head, tail, true
}

// ExtendLeft moves the item's left edge by offset frames (negative
// grows the item), clamped into its bounds. The media start offset
// shifts inversely so the visible content does not jump. Returns the
// input unchanged when the clamp leaves nothing to do.
func ExtendLeft(doc *timeline.Document, itemID string, offset int, ignore map[string]bool) *timeline.Document {
	it, ok := doc.Items[itemID]
	if !ok {
		return doc
	}
	b := ExtendBounds(doc, itemID, ignore)

	newFrom := clamp(it.From+offset, b.MinFrom, it.End()-1)
	delta := newFrom - it.From
	if delta == 0 {
		return doc
	}

	nd := doc.Clone()
	ni := *it
	ni.From = newFrom
	ni.DurationInFrames -= delta
	if ni.HasAsset() {
		ni.MediaStartInSeconds += float64(delta) * ni.Rate() / doc.FPS
		if ni.MediaStartInSeconds < 0 {
			ni.MediaStartInSeconds = 0
		}
	}
	clampFades(&ni, false)
	nd.Items[itemID] = &ni
	return nd
}

// ExtendRight moves the item's right edge by offset frames (positive
// grows the item), clamped into its bounds.
func ExtendRight(doc *timeline.Document, itemID string, offset int, ignore map[string]bool) *timeline.Document {
	it, ok := doc.Items[itemID]
	if !ok {
		return doc
	}
	b := ExtendBounds(doc, itemID, ignore)

	newEnd := clamp(it.End()+offset, it.From+1, b.MaxEnd)
	if newEnd == it.End() {
		return doc
	}

	nd := doc.Clone()
	ni := *it
	ni.DurationInFrames = newEnd - ni.From
	clampFades(&ni, true)
	nd.Items[itemID] = &ni
	return nd
}

// clampFades re-fits fade-in/fade-out into the item's new duration.
// The fade on the side opposite the edited edge is preserved first:
// a left edit keeps the fade-out, a right edit keeps the fade-in.
func clampFades(it *timeline.Item, editedRight bool) {
	d := it.DurationInFrames
	if editedRight {
		if it.FadeInFrames > d {
			it.FadeInFrames = d
		}
		if it.FadeOutFrames > d-it.FadeInFrames {
			it.FadeOutFrames = d - it.FadeInFrames
		}
	} else {
		if it.FadeOutFrames > d {
			it.FadeOutFrames = d
		}
		if it.FadeInFrames > d-it.FadeOutFrames {
			it.FadeInFrames = d - it.FadeOutFrames
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
