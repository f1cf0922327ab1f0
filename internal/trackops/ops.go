package trackops

import (
	"github.com/framecut/framecut/internal/timeline"
)

// AddItem places the item into the given space, creating a new track
// when the space demands it.
func AddItem(doc *timeline.Document, item *timeline.Item, space Space) *timeline.Document {
	nd := doc.Clone()
	idx := space.TrackIndex
	if space.ForceCreateNewTrack {
		nd.Tracks = spliceTrack(nd.Tracks, idx, timeline.Track{ID: timeline.NewID()})
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(nd.Tracks) {
		idx = len(nd.Tracks) - 1
	}
	tr := nd.Tracks[idx]
	tr.ItemIDs = append(append([]string{}, tr.ItemIDs...), item.ID)
	nd.Tracks[idx] = tr
	nd.Items[item.ID] = item
	return nd
}

// AddItemInSpace searches for a lane with the given policy and inserts.
func AddItemInSpace(doc *timeline.Document, item *timeline.Item, policy PlacementPolicy, refTrackIndex int) *timeline.Document {
	space := FindSpaceForItem(doc, item.From, item.DurationInFrames, policy, refTrackIndex, false, nil)
	return AddItem(doc, item, space)
}

// DeleteItems removes the items from the document, prunes now-empty
// tracks, and retires orphaned assets into the deletedAssets ledger.
// status, when non-nil, supplies the upload status recorded for a
// retired asset. Ledger entries are idempotent: an asset id already
// recorded is not appended again.
func DeleteItems(doc *timeline.Document, ids []string, status func(assetID string) string) *timeline.Document {
	existing := existingIDs(doc, ids)
	if len(existing) == 0 {
		return doc
	}

	nd := removeFromTracks(doc, existing)
	for id := range existing {
		delete(nd.Items, id)
	}
	nd.Tracks = pruneEmptyTracks(nd.Tracks)
	retireOrphanedAssets(nd, status)
	return nd
}

// CutItems removes the items like DeleteItems but leaves the asset map
// untouched: cut items may be pasted back, so their assets must
// survive. Returns the removed items for the clipboard, ordered by
// their original track position (front-most first).
func CutItems(doc *timeline.Document, ids []string) (*timeline.Document, []*timeline.Item) {
	existing := existingIDs(doc, ids)
	if len(existing) == 0 {
		return doc, nil
	}

	var removed []*timeline.Item
	for _, tr := range doc.Tracks {
		for _, id := range tr.ItemIDs {
			if existing[id] {
				removed = append(removed, doc.Items[id])
			}
		}
	}

	nd := removeFromTracks(doc, existing)
	for id := range existing {
		delete(nd.Items, id)
	}
	nd.Tracks = pruneEmptyTracks(nd.Tracks)
	return nd, removed
}

// DuplicateItems copies each item under a fresh id, placing the copy
// directly above its original lane (same lane when free). Returns the
// new ids in input order.
func DuplicateItems(doc *timeline.Document, ids []string) (*timeline.Document, []string) {
	nd := doc
	var newIDs []string
	for _, id := range ids {
		src, ok := nd.Items[id]
		if !ok {
			continue
		}
		cp := *src
		cp.ID = timeline.NewID()
		cp.IsDraggingInTimeline = false

		ref := nd.TrackOf(id)
		space := FindSpaceForItem(nd, cp.From, cp.DurationInFrames, PlaceDirectlyAbove, ref, false, nil)
		nd = AddItem(nd, &cp, space)
		newIDs = append(newIDs, cp.ID)
	}
	return nd, newIDs
}

// BringToFrontOrBack relocates an item to the front-most or back-most
// lane able to hold it, ignoring the lane it currently occupies.
func BringToFrontOrBack(doc *timeline.Document, id string, toFront bool) *timeline.Document {
	it, ok := doc.Items[id]
	if !ok {
		return doc
	}

	policy := PlaceBack
	if toFront {
		policy = PlaceFront
	}
	ignore := map[string]bool{id: true}
	nd := removeFromTracks(doc, ignore)
	nd.Tracks = pruneEmptyTracks(nd.Tracks)
	space := FindSpaceForItem(nd, it.From, it.DurationInFrames, policy, 0, false, ignore)
	return AddItem(nd, it, space)
}

func existingIDs(doc *timeline.Document, ids []string) map[string]bool {
	set := map[string]bool{}
	for _, id := range ids {
		if _, ok := doc.Items[id]; ok {
			set[id] = true
		}
	}
	return set
}

func removeFromTracks(doc *timeline.Document, ids map[string]bool) *timeline.Document {
	nd := doc.Clone()
	for i, tr := range nd.Tracks {
		kept := make([]string, 0, len(tr.ItemIDs))
		for _, id := range tr.ItemIDs {
			if !ids[id] {
				kept = append(kept, id)
			}
		}
		tr.ItemIDs = kept
		nd.Tracks[i] = tr
	}
	return nd
}

func pruneEmptyTracks(tracks []timeline.Track) []timeline.Track {
	kept := make([]timeline.Track, 0, len(tracks))
	for _, tr := range tracks {
		if len(tr.ItemIDs) > 0 {
			kept = append(kept, tr)
		}
	}
	return kept
}

func spliceTrack(tracks []timeline.Track, index int, tr timeline.Track) []timeline.Track {
	if index < 0 {
		index = 0
	}
	if index > len(tracks) {
		index = len(tracks)
	}
	out := make([]timeline.Track, 0, len(tracks)+1)
	out = append(out, tracks[:index]...)
	out = append(out, tr)
	out = append(out, tracks[index:]...)
	return out
}

func retireOrphanedAssets(nd *timeline.Document, status func(assetID string) string) {
	referenced := map[string]bool{}
	for _, it := range nd.Items {
		if it.AssetID != "" {
			referenced[it.AssetID] = true
		}
	}
	recorded := map[string]bool{}
	for _, da := range nd.DeletedAssets {
		recorded[da.AssetID] = true
	}

	for id, a := range nd.Assets {
		if referenced[id] {
			continue
		}
		delete(nd.Assets, id)
		if recorded[id] {
			continue
		}
		entry := timeline.DeletedAsset{
			AssetID:       id,
			RemoteURL:     a.RemoteURL,
			RemoteFileKey: a.RemoteFileKey,
		}
		if status != nil {
			entry.UploadStatus = status(id)
		}
		nd.DeletedAssets = append(nd.DeletedAssets, entry)
	}
}
