package trackops

import (
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

func rollDoc(t *testing.T) *timeline.Document {
	t.Helper()
	// Two abutting items [0, 100) and [100, 200), with an outer neighbor
	// at [250, 300) capping the right item's growth.
	return buildDoc(t, 30,
		[]*timeline.Item{solid("left", 0, 100), solid("right", 100, 100), solid("outer", 250, 50)},
	)
}

func TestFindRollEditPair(t *testing.T) {
	doc := rollDoc(t)

	if _, ok := FindRollEditPair(doc, "left", "right"); !ok {
		t.Error("abutting items not recognized as a roll pair")
	}
	if _, ok := FindRollEditPair(doc, "right", "outer"); ok {
		t.Error("items with a gap accepted as a roll pair")
	}
	if _, ok := FindRollEditPair(doc, "left", "missing"); ok {
		t.Error("unknown item accepted as a roll pair")
	}

	other := buildDoc(t, 30,
		[]*timeline.Item{solid("a", 0, 100)},
		[]*timeline.Item{solid("b", 100, 100)},
	)
	if _, ok := FindRollEditPair(other, "a", "b"); ok {
		t.Error("items on different tracks accepted as a roll pair")
	}
}

func TestRollEditOffsetBounds(t *testing.T) {
	doc := rollDoc(t)
	pair, _ := FindRollEditPair(doc, "left", "right")

	min, max := RollEditOffsetBounds(doc, pair)
	// Moving right: the right item may shrink to 1 frame, +99.
	if max != 99 {
		t.Errorf("max = %d, want 99", max)
	}
	// Moving left: the left item may shrink to 1 frame, -99.
	if min != -99 {
		t.Errorf("min = %d, want -99", min)
	}
}

func TestRollEditMovesSharedBoundary(t *testing.T) {
	doc := rollDoc(t)
	pair, _ := FindRollEditPair(doc, "left", "right")

	tests := []struct {
		name                string
		offset              int
		wantBoundary        int
		wantLeftDur, wantRD int
	}{
		{"right", 30, 130, 130, 70},
		{"left", -30, 70, 70, 130},
		{"clamped right", 500, 199, 199, 1},
		{"clamped left", -500, 1, 1, 199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nd := RollEdit(doc, pair, tt.offset)
			left := nd.Items["left"]
			right := nd.Items["right"]
			if left.End() != tt.wantBoundary || right.From != tt.wantBoundary {
				t.Errorf("boundary = (%d, %d), want %d", left.End(), right.From, tt.wantBoundary)
			}
			if left.DurationInFrames != tt.wantLeftDur {
				t.Errorf("left duration = %d, want %d", left.DurationInFrames, tt.wantLeftDur)
			}
			if right.DurationInFrames != tt.wantRD {
				t.Errorf("right duration = %d, want %d", right.DurationInFrames, tt.wantRD)
			}
			if right.End() != 200 {
				t.Errorf("right end moved to %d, want 200", right.End())
			}
			mustInvariants(t, nd)
		})
	}
}

func TestRollEditZeroOffsetIsNoOp(t *testing.T) {
	doc := rollDoc(t)
	pair, _ := FindRollEditPair(doc, "left", "right")
	if nd := RollEdit(doc, pair, 0); nd != doc {
		t.Error("zero-offset roll edit returned a new document")
	}
}

func TestRollEditMediaBoundCapsGrowth(t *testing.T) {
	// The left item is a video with only 1 s (30 frames) of tail room;
	// a large rightward roll clamps there.
	left := videoItem("left", "a1", 0, 90)
	right := solid("right", 90, 100)
	doc := buildDoc(t, 30, []*timeline.Item{left, right})
	doc.Assets["a1"] = &timeline.Asset{ID: "a1", Kind: timeline.AssetVideo, Filename: "clip.mp4", DurationInSeconds: 4}

	pair, _ := FindRollEditPair(doc, "left", "right")
	nd := RollEdit(doc, pair, 500)
	if got := nd.Items["left"].End(); got != 120 {
		t.Errorf("boundary = %d, want 120", got)
	}
	if got := nd.Items["right"].From; got != 120 {
		t.Errorf("right.From = %d, want 120", got)
	}
	mustInvariants(t, nd)
}
