package trackops

import (
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

// buildDoc assembles a document from per-track item lists. Items must
// carry unique ids; they are registered and attached in order.
func buildDoc(t *testing.T, fps float64, tracks ...[]*timeline.Item) *timeline.Document {
	t.Helper()
	doc := timeline.Blank(fps, 1920, 1080)
	for ti, items := range tracks {
		tr := timeline.Track{ID: timeline.NewID()}
		for _, it := range items {
			tr.ItemIDs = append(tr.ItemIDs, it.ID)
			doc.Items[it.ID] = it
		}
		doc.Tracks = append(doc.Tracks, tr)
		_ = ti
	}
	return doc
}

func solid(id string, from, duration int) *timeline.Item {
	return &timeline.Item{ID: id, Kind: timeline.ItemSolid, From: from, DurationInFrames: duration, Color: "#000"}
}

func videoItem(id, assetID string, from, duration int) *timeline.Item {
	return &timeline.Item{ID: id, Kind: timeline.ItemVideo, From: from, DurationInFrames: duration, AssetID: assetID, PlaybackRate: 1}
}

func mustInvariants(t *testing.T, doc *timeline.Document) {
	t.Helper()
	if err := doc.CheckInvariants(); err != nil {
		t.Fatalf("document invariants violated: %v", err)
	}
}

func TestDeleteItemsRetiresOrphanedAssets(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{videoItem("i1", "a1", 0, 100), videoItem("i2", "a1", 100, 100)},
		[]*timeline.Item{videoItem("i3", "a2", 0, 50)},
	)
	doc.Assets["a1"] = &timeline.Asset{ID: "a1", Kind: timeline.AssetVideo, Filename: "one.mp4", RemoteURL: "https://cdn/one.mp4"}
	doc.Assets["a2"] = &timeline.Asset{ID: "a2", Kind: timeline.AssetVideo, Filename: "two.mp4", RemoteFileKey: "key-2"}

	status := func(assetID string) string { return "uploaded" }

	// Deleting one of the two items referencing a1 keeps the asset.
	nd := DeleteItems(doc, []string{"i1"}, status)
	if _, ok := nd.Assets["a1"]; !ok {
		t.Fatal("asset a1 retired while still referenced by i2")
	}
	if len(nd.DeletedAssets) != 0 {
		t.Fatalf("deletedAssets = %d entries, want 0", len(nd.DeletedAssets))
	}

	// Deleting the last reference retires the asset into the ledger.
	nd = DeleteItems(nd, []string{"i2"}, status)
	if _, ok := nd.Assets["a1"]; ok {
		t.Fatal("asset a1 still present with no referencing items")
	}
	if len(nd.DeletedAssets) != 1 {
		t.Fatalf("deletedAssets = %d entries, want 1", len(nd.DeletedAssets))
	}
	entry := nd.DeletedAssets[0]
	if entry.AssetID != "a1" || entry.RemoteURL != "https://cdn/one.mp4" || entry.UploadStatus != "uploaded" {
		t.Errorf("ledger entry = %+v", entry)
	}

	// The now-empty first track is pruned.
	if len(nd.Tracks) != 1 {
		t.Errorf("tracks = %d, want 1", len(nd.Tracks))
	}
	mustInvariants(t, nd)
}

func TestDeleteItemsLedgerIsIdempotent(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{videoItem("i1", "a1", 0, 100)},
	)
	doc.Assets["a1"] = &timeline.Asset{ID: "a1", Kind: timeline.AssetVideo, Filename: "one.mp4"}
	doc.DeletedAssets = []timeline.DeletedAsset{{AssetID: "a1", UploadStatus: "uploaded"}}

	nd := DeleteItems(doc, []string{"i1"}, nil)
	if len(nd.DeletedAssets) != 1 {
		t.Errorf("deletedAssets = %d entries, want 1 (no duplicate)", len(nd.DeletedAssets))
	}
}

func TestDeleteItemsUnknownIDsAreNoOp(t *testing.T) {
	doc := buildDoc(t, 30, []*timeline.Item{solid("i1", 0, 10)})
	nd := DeleteItems(doc, []string{"nope"}, nil)
	if nd != doc {
		t.Error("DeleteItems with unknown ids returned a new document")
	}
}

func TestCutItemsKeepsAssets(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{videoItem("i1", "a1", 0, 100)},
	)
	doc.Assets["a1"] = &timeline.Asset{ID: "a1", Kind: timeline.AssetVideo, Filename: "one.mp4"}

	nd, removed := CutItems(doc, []string{"i1"})
	if len(removed) != 1 || removed[0].ID != "i1" {
		t.Fatalf("removed = %v, want [i1]", removed)
	}
	if _, ok := nd.Assets["a1"]; !ok {
		t.Error("cut retired asset a1; cut items must keep assets for paste")
	}
	if len(nd.DeletedAssets) != 0 {
		t.Errorf("deletedAssets = %d entries, want 0", len(nd.DeletedAssets))
	}
	if _, ok := nd.Items["i1"]; ok {
		t.Error("item i1 still in document after cut")
	}
}

func TestDuplicateItemsLandsDirectlyAbove(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("i1", 0, 100)},
	)

	nd, newIDs := DuplicateItems(doc, []string{"i1"})
	if len(newIDs) != 1 {
		t.Fatalf("newIDs = %v, want one id", newIDs)
	}
	cp := nd.Items[newIDs[0]]
	if cp == nil {
		t.Fatal("duplicate not registered")
	}
	if cp.From != 0 || cp.DurationInFrames != 100 {
		t.Errorf("duplicate range = [%d, %d), want [0, 100)", cp.From, cp.End())
	}
	// The original lane is occupied at the same range, so a new track is
	// created above it.
	if len(nd.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(nd.Tracks))
	}
	if got := nd.TrackOf(newIDs[0]); got != 0 {
		t.Errorf("duplicate track = %d, want 0 (above original)", got)
	}
	mustInvariants(t, nd)
}

func TestDuplicateIntoFreeLane(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("i1", 0, 100), solid("i2", 200, 50)},
	)

	nd, newIDs := DuplicateItems(doc, []string{"i2"})
	// [200, 250) is occupied on the original lane by i2 itself, so the
	// copy still needs a fresh lane above.
	if len(nd.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(nd.Tracks))
	}
	if got := nd.TrackOf(newIDs[0]); got != 0 {
		t.Errorf("duplicate track = %d, want 0", got)
	}
	mustInvariants(t, nd)
}

func TestBringToFrontOrBack(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("a", 0, 100)},
		[]*timeline.Item{solid("b", 0, 100)},
		[]*timeline.Item{solid("c", 200, 100)},
	)

	t.Run("to front finds the first free lane", func(t *testing.T) {
		nd := BringToFrontOrBack(doc, "c", true)
		// [200, 300) is free on track 0.
		if got := nd.TrackOf("c"); got != 0 {
			t.Errorf("track of c = %d, want 0", got)
		}
		// c's old lane is pruned.
		if len(nd.Tracks) != 2 {
			t.Errorf("tracks = %d, want 2", len(nd.Tracks))
		}
		mustInvariants(t, nd)
	})

	t.Run("to back forces a new bottom lane when all collide", func(t *testing.T) {
		crowded := buildDoc(t, 30,
			[]*timeline.Item{solid("a", 0, 100)},
			[]*timeline.Item{solid("b", 0, 100)},
			[]*timeline.Item{solid("c", 50, 100)},
		)
		nd := BringToFrontOrBack(crowded, "a", false)
		// [0, 100) collides on both remaining lanes, so a lands on a new
		// bottom track.
		if got := nd.TrackOf("a"); got != len(nd.Tracks)-1 {
			t.Errorf("track of a = %d, want bottom (%d)", got, len(nd.Tracks)-1)
		}
		if len(nd.Tracks) != 3 {
			t.Errorf("tracks = %d, want 3", len(nd.Tracks))
		}
		mustInvariants(t, nd)
	})
}

func TestAddItemInSpaceCreatesTrackWhenAllOccupied(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("a", 0, 100)},
	)
	item := solid("new", 50, 30)

	nd := AddItemInSpace(doc, item, PlaceFront, 0)
	if len(nd.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(nd.Tracks))
	}
	if got := nd.TrackOf("new"); got != 0 {
		t.Errorf("track of new item = %d, want 0 (front)", got)
	}
	mustInvariants(t, nd)
}
