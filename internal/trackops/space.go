// Package trackops implements the pure state transitions of the
// timeline document: placing, deleting, duplicating, cutting, pasting
// and trimming items. Every function returns a new document built from
// a clone of the input; expected no-ops return the input unchanged.
package trackops

import (
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/timeline"
)

// PlacementPolicy selects the lane-search strategy for item insertion.
type PlacementPolicy int

const (
	// PlaceFront scans tracks top to bottom for the first free lane.
	PlaceFront PlacementPolicy = iota
	// PlaceBack scans tracks bottom to top for the first free lane.
	PlaceBack
	// PlaceDirectlyAbove uses a reference lane, creating a new lane
	// above it when the reference is occupied at the candidate range.
	PlaceDirectlyAbove
)

// Space is the result of a lane search. When ForceCreateNewTrack is
// set, TrackIndex is the position at which the new track is inserted.
type Space struct {
	TrackIndex          int
	ForceCreateNewTrack bool
}

// RangeFree reports whether [from, from+duration) is unoccupied on the
// given track, skipping ids in ignore.
func RangeFree(doc *timeline.Document, trackIndex, from, duration int, ignore map[string]bool) bool {
	for _, it := range doc.TrackItems(trackIndex, ignore) {
		if geometry.Overlaps(it, from, duration) {
			return false
		}
	}
	return true
}

// FindSpaceForItem searches for a lane able to hold [from,
// from+duration). With stopOnFirstFound the scan aborts at the first
// occupied lane and forces a new track at the scan's starting edge;
// otherwise every lane is considered before a new track is forced.
// refTrackIndex is only used by PlaceDirectlyAbove.
func FindSpaceForItem(doc *timeline.Document, from, duration int, policy PlacementPolicy, refTrackIndex int, stopOnFirstFound bool, ignore map[string]bool) Space {
	n := len(doc.Tracks)

	switch policy {
	case PlaceFront:
		for i := 0; i < n; i++ {
			if RangeFree(doc, i, from, duration, ignore) {
				return Space{TrackIndex: i}
			}
			if stopOnFirstFound {
				break
			}
		}
		return Space{TrackIndex: 0, ForceCreateNewTrack: true}

	case PlaceBack:
		for i := n - 1; i >= 0; i-- {
			if RangeFree(doc, i, from, duration, ignore) {
				return Space{TrackIndex: i}
			}
			if stopOnFirstFound {
				break
			}
		}
		return Space{TrackIndex: n, ForceCreateNewTrack: true}

	case PlaceDirectlyAbove:
		if refTrackIndex >= 0 && refTrackIndex < n &&
			RangeFree(doc, refTrackIndex, from, duration, ignore) {
			return Space{TrackIndex: refTrackIndex}
		}
		if refTrackIndex < 0 {
			refTrackIndex = 0
		}
		if refTrackIndex > n {
			refTrackIndex = n
		}
		return Space{TrackIndex: refTrackIndex, ForceCreateNewTrack: true}

	default:
		return Space{TrackIndex: 0, ForceCreateNewTrack: true}
	}
}
