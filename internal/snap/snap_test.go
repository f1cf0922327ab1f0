package snap

import (
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

func pointsAt(frames ...int) []Point {
	pts := make([]Point, len(frames))
	for i, f := range frames {
		pts[i] = Point{Frame: f, Kind: PointItemStart, ItemID: "x"}
	}
	return pts
}

func TestCollect(t *testing.T) {
	items := map[string]*timeline.Item{
		"a": {ID: "a", Kind: timeline.ItemSolid, From: 100, DurationInFrames: 50},
		"b": {ID: "b", Kind: timeline.ItemSolid, From: 150, DurationInFrames: 100},
		"c": {ID: "c", Kind: timeline.ItemSolid, From: 0, DurationInFrames: 30},
	}
	tracks := []timeline.Track{
		{ID: "t1", ItemIDs: []string{"a", "b"}},
		{ID: "t2", ItemIDs: []string{"c"}},
	}

	got := Collect(tracks, items, map[string]bool{"c": true})

	// a contributes 100 and 150, b contributes 150 (deduped) and 250;
	// c is excluded.
	wantFrames := []int{100, 150, 250}
	if len(got) != len(wantFrames) {
		t.Fatalf("Collect() returned %d points, want %d", len(got), len(wantFrames))
	}
	for i, want := range wantFrames {
		if got[i].Frame != want {
			t.Errorf("points[%d].Frame = %d, want %d", i, got[i].Frame, want)
		}
	}
}

func TestApplyThreshold(t *testing.T) {
	// 10 px threshold at 2 px/frame is a 5-frame window.
	opts := Options{Enabled: true, ThresholdPx: 10, PixelsPerFrame: 2}
	points := pointsAt(0, 100, 250)

	tests := []struct {
		name      string
		target    int
		wantFrame int
		wantSnap  bool
	}{
		{"within threshold snaps", 104, 100, true},
		{"outside threshold stays", 106, 106, false},
		{"exact match", 250, 250, true},
		{"snaps down to zero", 3, 0, true},
		{"between points, nearer wins", 98, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, p := Apply(tt.target, points, opts)
			if frame != tt.wantFrame {
				t.Errorf("Apply(%d) frame = %d, want %d", tt.target, frame, tt.wantFrame)
			}
			if (p != nil) != tt.wantSnap {
				t.Errorf("Apply(%d) snapped = %v, want %v", tt.target, p != nil, tt.wantSnap)
			}
		})
	}
}

func TestApplyDisabled(t *testing.T) {
	opts := Options{Enabled: false, ThresholdPx: 10, PixelsPerFrame: 2}
	frame, p := Apply(101, pointsAt(100), opts)
	if frame != 101 || p != nil {
		t.Errorf("Apply with snapping off = (%d, %v), want (101, nil)", frame, p)
	}
}

func TestNearestPicksAdjacentCandidates(t *testing.T) {
	points := pointsAt(0, 50, 100)

	tests := []struct {
		name      string
		target    int
		threshold int
		wantFrame int
		wantNil   bool
	}{
		{"midpoint prefers lower distance", 74, 30, 50, false},
		{"above midpoint", 76, 30, 100, false},
		{"nothing in range", 74, 10, 0, true},
		{"before first point", -3, 5, 0, false},
		{"after last point", 104, 5, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Nearest(tt.target, points, tt.threshold)
			if tt.wantNil {
				if p != nil {
					t.Fatalf("Nearest(%d) = %v, want nil", tt.target, p)
				}
				return
			}
			if p == nil {
				t.Fatalf("Nearest(%d) = nil, want %d", tt.target, tt.wantFrame)
			}
			if p.Frame != tt.wantFrame {
				t.Errorf("Nearest(%d) = %d, want %d", tt.target, p.Frame, tt.wantFrame)
			}
		})
	}
}

func TestBestForEdges(t *testing.T) {
	opts := Options{Enabled: true, ThresholdPx: 10, PixelsPerFrame: 2}
	points := pointsAt(100, 300)

	t.Run("closest edge wins and offset is uniform", func(t *testing.T) {
		edges := []Edge{
			{ItemID: "a", Frame: 97},  // 3 from 100
			{ItemID: "b", Frame: 299}, // 1 from 300
		}
		offset, winner, ok := BestForEdges(edges, points, opts)
		if !ok {
			t.Fatal("BestForEdges() ok = false, want true")
		}
		if offset != 1 {
			t.Errorf("offset = %d, want 1", offset)
		}
		if winner == nil || winner.Frame != 300 {
			t.Errorf("winner = %v, want frame 300", winner)
		}
	})

	t.Run("no edge in range", func(t *testing.T) {
		edges := []Edge{{ItemID: "a", Frame: 200}}
		if _, _, ok := BestForEdges(edges, points, opts); ok {
			t.Error("BestForEdges() ok = true, want false")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		edges := []Edge{{ItemID: "a", Frame: 100}}
		off := Options{Enabled: false, ThresholdPx: 10, PixelsPerFrame: 2}
		if _, _, ok := BestForEdges(edges, points, off); ok {
			t.Error("BestForEdges() with snapping off ok = true, want false")
		}
	})
}
