package trackops

import (
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

func TestFindSpaceForItem(t *testing.T) {
	// Track 0: [0, 100). Track 1: [50, 150). Track 2: empty range
	// everywhere past 200.
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("a", 0, 100)},
		[]*timeline.Item{solid("b", 50, 100)},
		[]*timeline.Item{solid("c", 200, 100)},
	)

	tests := []struct {
		name             string
		from             int
		duration         int
		policy           PlacementPolicy
		refTrack         int
		stopOnFirstFound bool
		want             Space
	}{
		{
			name: "front scan finds first free lane",
			from: 120, duration: 30, policy: PlaceFront,
			want: Space{TrackIndex: 0},
		},
		{
			name: "front scan skips occupied lanes",
			from: 60, duration: 30, policy: PlaceFront,
			want: Space{TrackIndex: 2},
		},
		{
			name: "back scan finds last free lane",
			from: 120, duration: 30, policy: PlaceBack,
			want: Space{TrackIndex: 2},
		},
		{
			name: "stop on first occupied forces new front track",
			from: 60, duration: 30, policy: PlaceFront, stopOnFirstFound: true,
			want: Space{TrackIndex: 0, ForceCreateNewTrack: true},
		},
		{
			name: "stop on first occupied forces new back track",
			from: 210, duration: 30, policy: PlaceBack, stopOnFirstFound: true,
			want: Space{TrackIndex: 3, ForceCreateNewTrack: true},
		},
		{
			name: "directly above free reference stays",
			from: 120, duration: 30, policy: PlaceDirectlyAbove, refTrack: 1,
			want: Space{TrackIndex: 1},
		},
		{
			name: "directly above occupied reference inserts a new lane",
			from: 60, duration: 30, policy: PlaceDirectlyAbove, refTrack: 1,
			want: Space{TrackIndex: 1, ForceCreateNewTrack: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSpaceForItem(doc, tt.from, tt.duration, tt.policy, tt.refTrack, tt.stopOnFirstFound, nil)
			if got != tt.want {
				t.Errorf("FindSpaceForItem() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindSpaceAllOccupiedForcesNewTrack(t *testing.T) {
	doc := buildDoc(t, 30,
		[]*timeline.Item{solid("a", 0, 100)},
		[]*timeline.Item{solid("b", 0, 100)},
	)

	front := FindSpaceForItem(doc, 10, 30, PlaceFront, 0, false, nil)
	if want := (Space{TrackIndex: 0, ForceCreateNewTrack: true}); front != want {
		t.Errorf("PlaceFront = %+v, want %+v", front, want)
	}
	back := FindSpaceForItem(doc, 10, 30, PlaceBack, 0, false, nil)
	if want := (Space{TrackIndex: 2, ForceCreateNewTrack: true}); back != want {
		t.Errorf("PlaceBack = %+v, want %+v", back, want)
	}
}

func TestRangeFreeHonorsIgnore(t *testing.T) {
	doc := buildDoc(t, 30, []*timeline.Item{solid("a", 0, 100)})

	if RangeFree(doc, 0, 50, 30, nil) {
		t.Error("RangeFree = true over an occupied range")
	}
	if !RangeFree(doc, 0, 50, 30, map[string]bool{"a": true}) {
		t.Error("RangeFree = false when the only occupant is ignored")
	}
	if !RangeFree(doc, 0, 100, 30, nil) {
		t.Error("RangeFree = false for a range abutting the occupant")
	}
}
