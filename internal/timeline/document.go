package timeline

import (
	"fmt"
	"sort"
)

// Document is the undoable part of the editor state: the only data that
// participates in undo/redo history. Snapshots are shared by reference
// between history entries, so callers must never mutate a Document they
// did not just clone.
type Document struct {
	Tracks            []Track           `json:"tracks"`
	Items             map[string]*Item  `json:"items"`
	Assets            map[string]*Asset `json:"assets"`
	FPS               float64           `json:"fps"`
	CompositionWidth  int               `json:"compositionWidth"`
	CompositionHeight int               `json:"compositionHeight"`
	DeletedAssets     []DeletedAsset    `json:"deletedAssets"`
}

// Blank returns an empty document at the given frame rate and
// composition size. It is the fallback for malformed persisted input.
func Blank(fps float64, width, height int) *Document {
	return &Document{
		Tracks:            []Track{},
		Items:             map[string]*Item{},
		Assets:            map[string]*Asset{},
		FPS:               fps,
		CompositionWidth:  width,
		CompositionHeight: height,
	}
}

// Clone returns a shallow copy: new track slice and new item/asset maps
// sharing the existing pointers. Reducers clone first, then replace the
// entries they change with copied values.
func (d *Document) Clone() *Document {
	nd := *d
	nd.Tracks = make([]Track, len(d.Tracks))
	copy(nd.Tracks, d.Tracks)
	nd.Items = make(map[string]*Item, len(d.Items))
	for id, it := range d.Items {
		nd.Items[id] = it
	}
	nd.Assets = make(map[string]*Asset, len(d.Assets))
	for id, a := range d.Assets {
		nd.Assets[id] = a
	}
	nd.DeletedAssets = make([]DeletedAsset, len(d.DeletedAssets))
	copy(nd.DeletedAssets, d.DeletedAssets)
	return &nd
}

// TrackOf returns the index of the track holding the item, or -1.
func (d *Document) TrackOf(itemID string) int {
	for i, tr := range d.Tracks {
		for _, id := range tr.ItemIDs {
			if id == itemID {
				return i
			}
		}
	}
	return -1
}

// TrackItems returns the items of one track, skipping any id in ignore.
func (d *Document) TrackItems(trackIndex int, ignore map[string]bool) []*Item {
	if trackIndex < 0 || trackIndex >= len(d.Tracks) {
		return nil
	}
	var items []*Item
	for _, id := range d.Tracks[trackIndex].ItemIDs {
		if ignore[id] {
			continue
		}
		if it, ok := d.Items[id]; ok {
			items = append(items, it)
		}
	}
	return items
}

// AssetFor resolves the asset referenced by a media item, or nil.
func (d *Document) AssetFor(it *Item) *Asset {
	if it.AssetID == "" {
		return nil
	}
	return d.Assets[it.AssetID]
}

// DurationInFrames is the frame at which the last item ends.
func (d *Document) DurationInFrames() int {
	end := 0
	for _, it := range d.Items {
		if it.End() > end {
			end = it.End()
		}
	}
	return end
}

// CheckInvariants verifies the structural health of the document: item
// ids referenced by tracks exist, every item sits on exactly one track,
// frame ranges are sane, and no two items on one track overlap.
func (d *Document) CheckInvariants() error {
	seen := map[string]int{}
	for ti, tr := range d.Tracks {
		for _, id := range tr.ItemIDs {
			if _, ok := d.Items[id]; !ok {
				return fmt.Errorf("track %d references missing item %s", ti, id)
			}
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("item %s appears on tracks %d and %d", id, prev, ti)
			}
			seen[id] = ti
		}
		if err := checkTrackOverlap(d, ti); err != nil {
			return err
		}
	}
	for id, it := range d.Items {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("item %s belongs to no track", id)
		}
		if it.From < 0 {
			return fmt.Errorf("item %s has negative start %d", id, it.From)
		}
		if it.DurationInFrames < 1 {
			return fmt.Errorf("item %s has duration %d", id, it.DurationInFrames)
		}
		if it.HasAsset() && it.AssetID != "" {
			if _, ok := d.Assets[it.AssetID]; !ok {
				return fmt.Errorf("item %s references missing asset %s", id, it.AssetID)
			}
		}
	}
	return nil
}

func checkTrackOverlap(d *Document, trackIndex int) error {
	items := d.TrackItems(trackIndex, nil)
	sort.Slice(items, func(i, j int) bool { return items[i].From < items[j].From })
	for i := 1; i < len(items); i++ {
		if items[i].From < items[i-1].End() {
			return fmt.Errorf("items %s and %s overlap on track %d",
				items[i-1].ID, items[i].ID, trackIndex)
		}
	}
	return nil
}
