// Package export turns a timeline document into a CMX3600 edit
// decision list. The video lanes are flattened front-to-back: for each
// span of the timeline the front-most visible clip wins, which matches
// what the compositor would show.
package export

import (
	"sort"

	"github.com/framecut/framecut/internal/timeline"
)

// Clip is one flattened event: a source media range placed on the
// record timeline.
type Clip struct {
	Name      string
	MediaPath string
	StartMs   int
	EndMs     int
	AssetID   string
}

// ResolvePath maps an asset to an exportable media location. ok false
// leaves the clip out and reports it as unresolved.
type ResolvePath func(asset *timeline.Asset) (string, bool)

// visual kinds participate in the flatten; audio-only and overlay
// kinds do not produce EDL events.
func isVisual(kind timeline.ItemKind) bool {
	switch kind {
	case timeline.ItemVideo, timeline.ItemImage, timeline.ItemGIF:
		return true
	case timeline.ItemAudio, timeline.ItemText, timeline.ItemSolid, timeline.ItemCaptions:
		return false
	default:
		return false
	}
}

// Flatten computes the front-most visual occupancy of the document.
// Track 0 is the front. Returns the clips in record order plus the ids
// of assets that could not be resolved.
func Flatten(doc *timeline.Document, resolve ResolvePath) (clips []Clip, unresolved []string) {
	type placed struct {
		item  *timeline.Item
		track int
	}
	var candidates []placed
	for ti, tr := range doc.Tracks {
		if tr.Hidden {
			continue
		}
		for _, id := range tr.ItemIDs {
			it, ok := doc.Items[id]
			if !ok || !isVisual(it.Kind) {
				continue
			}
			candidates = append(candidates, placed{item: it, track: ti})
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	boundarySet := map[int]bool{}
	for _, c := range candidates {
		boundarySet[c.item.From] = true
		boundarySet[c.item.End()] = true
	}
	boundaries := make([]int, 0, len(boundarySet))
	for f := range boundarySet {
		boundaries = append(boundaries, f)
	}
	sort.Ints(boundaries)

	missing := map[string]bool{}
	for i := 0; i+1 < len(boundaries); i++ {
		segStart, segEnd := boundaries[i], boundaries[i+1]

		var front *placed
		for j := range candidates {
			c := &candidates[j]
			if c.item.From <= segStart && segEnd <= c.item.End() {
				if front == nil || c.track < front.track {
					front = c
				}
			}
		}
		if front == nil {
			continue
		}

		it := front.item
		asset := doc.AssetFor(it)
		if asset == nil {
			continue
		}
		path, ok := resolve(asset)
		if !ok {
			if !missing[asset.ID] {
				missing[asset.ID] = true
				unresolved = append(unresolved, asset.ID)
			}
			continue
		}

		// Source position of the segment within the asset, honoring
		// the item's media start offset and playback rate.
		rate := it.Rate()
		srcStart := it.MediaStartInSeconds + float64(segStart-it.From)*rate/doc.FPS
		srcEnd := it.MediaStartInSeconds + float64(segEnd-it.From)*rate/doc.FPS

		clip := Clip{
			Name:      SanitizeName(asset.Filename, 64),
			MediaPath: path,
			StartMs:   int(srcStart * 1000),
			EndMs:     int(srcEnd * 1000),
			AssetID:   asset.ID,
		}

		// Merge with the previous clip when source and media continue
		// seamlessly across the boundary.
		if n := len(clips); n > 0 {
			prev := &clips[n-1]
			if prev.AssetID == clip.AssetID && prev.MediaPath == clip.MediaPath && prev.EndMs == clip.StartMs {
				prev.EndMs = clip.EndMs
				continue
			}
		}
		clips = append(clips, clip)
	}
	return clips, unresolved
}
