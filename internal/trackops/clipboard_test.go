package trackops

import (
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

func TestPasteItemsAtPlayhead(t *testing.T) {
	doc := timeline.Blank(30, 1920, 1080)
	clipboard := []*timeline.Item{
		solid("c1", 10, 20),
		solid("c2", 40, 20),
		solid("c3", 70, 20),
	}

	nd, newIDs := PasteItems(doc, clipboard, 200, nil)
	if len(newIDs) != 3 {
		t.Fatalf("newIDs = %d, want 3", len(newIDs))
	}

	// The batch re-anchors at the playhead preserving relative offsets:
	// min from 10 maps to 200, so 10/40/70 become 200/230/260.
	wantFrom := []int{200, 230, 260}
	for i, id := range newIDs {
		it := nd.Items[id]
		if it == nil {
			t.Fatalf("pasted item %d missing", i)
		}
		if it.From != wantFrom[i] {
			t.Errorf("pasted[%d].From = %d, want %d", i, it.From, wantFrom[i])
		}
		if it.ID == clipboard[i].ID {
			t.Errorf("pasted[%d] reused the clipboard id", i)
		}
	}
	mustInvariants(t, nd)
}

func TestPasteItemsCenteredUnderPointer(t *testing.T) {
	doc := timeline.Blank(30, 1920, 1080)
	clipboard := []*timeline.Item{solid("c1", 500, 60)}

	nd, newIDs := PasteItems(doc, clipboard, 0, &PastePoint{Frame: 100})
	it := nd.Items[newIDs[0]]
	if it.From != 70 {
		t.Errorf("From = %d, want 70 (centered under frame 100)", it.From)
	}
}

func TestPasteItemsClampsToZero(t *testing.T) {
	doc := timeline.Blank(30, 1920, 1080)
	clipboard := []*timeline.Item{solid("c1", 0, 100)}

	nd, newIDs := PasteItems(doc, clipboard, 0, &PastePoint{Frame: 10})
	if it := nd.Items[newIDs[0]]; it.From != 0 {
		t.Errorf("From = %d, want 0 (clamped)", it.From)
	}
}

func TestPasteOverlappingBatchStacksLanes(t *testing.T) {
	// Two clipboard items occupying the same range land on different
	// lanes; reverse-order insertion puts the batch's first item on the
	// front-most lane.
	doc := timeline.Blank(30, 1920, 1080)
	clipboard := []*timeline.Item{
		solid("c1", 0, 50),
		solid("c2", 0, 50),
	}

	nd, newIDs := PasteItems(doc, clipboard, 0, nil)
	first := nd.TrackOf(newIDs[0])
	second := nd.TrackOf(newIDs[1])
	if first >= second {
		t.Errorf("lanes = (%d, %d), want first item front-most", first, second)
	}
	mustInvariants(t, nd)
}

func TestPasteEmptyClipboard(t *testing.T) {
	doc := timeline.Blank(30, 1920, 1080)
	nd, newIDs := PasteItems(doc, nil, 100, nil)
	if nd != doc || newIDs != nil {
		t.Error("pasting an empty clipboard must be a no-op")
	}
}

func TestSortedTrackItems(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("b", 100, 10), solid("a", 0, 10), solid("c", 50, 10)},
	)
	items := SortedTrackItems(doc, 0, nil)
	want := []string{"a", "c", "b"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, items[i].ID, id)
		}
	}
}
