package geometry

import (
	"github.com/framecut/framecut/internal/timeline"
)

// Overlaps reports whether the candidate range [from, from+duration)
// intersects the item's frame range. Exact abutment does not count as
// an overlap; items may sit flush against each other.
func Overlaps(it *timeline.Item, from, duration int) bool {
	return from < it.End() && it.From < from+duration
}

// OverlapsLeft reports whether the candidate's left edge falls inside
// the item. Together with OverlapsRight the checks are asymmetric:
// for a simple displacement exactly one of them fires, so a collision
// at a shared boundary is never counted twice.
func OverlapsLeft(it *timeline.Item, from int) bool {
	return it.From <= from && from < it.End()
}

// OverlapsRight reports whether the candidate's right edge falls inside
// the item while the candidate starts after the item does.
func OverlapsRight(it *timeline.Item, from, duration int) bool {
	end := from + duration
	return from > it.From && it.From < end && end <= it.End()
}

// AlternativeForCollisionLeft flush-places a candidate of the given
// duration against the left edge of the colliding neighbor, then
// verifies the placement against the rest of the track. Returns the new
// start frame, or nil when the gap is insufficient.
func AlternativeForCollisionLeft(colliding *timeline.Item, occupants []*timeline.Item, duration int) *int {
	from := colliding.From - duration
	if from < 0 {
		return nil
	}
	return verifyPlacement(colliding, occupants, from, duration)
}

// AlternativeForCollisionRight flush-places the candidate against the
// right edge of the colliding neighbor. Returns the new start frame, or
// nil when a further collision results.
func AlternativeForCollisionRight(colliding *timeline.Item, occupants []*timeline.Item, duration int) *int {
	from := colliding.End()
	return verifyPlacement(colliding, occupants, from, duration)
}

func verifyPlacement(colliding *timeline.Item, occupants []*timeline.Item, from, duration int) *int {
	for _, other := range occupants {
		if other.ID == colliding.ID {
			continue
		}
		if Overlaps(other, from, duration) {
			return nil
		}
	}
	return &from
}

// VirtualItem spans a dragged group's extent on one destination track.
// Group collision recovery treats each track's share of the group as a
// single interval.
type VirtualItem struct {
	TrackIndex int
	From       int
	Duration   int
}

func (v VirtualItem) end() int { return v.From + v.Duration }

// AlternativeForGroupCollision searches for the smallest uniform shift
// that makes every virtual item collision-free on its destination
// track. occupants yields the non-dragged items of a track. Returns nil
// when no track produces a shift that is valid across the whole group.
func AlternativeForGroupCollision(virtuals []VirtualItem, occupants func(trackIndex int) []*timeline.Item) *int {
	var best *int
	consider := func(shift int) {
		if !groupShiftValid(virtuals, occupants, shift) {
			return
		}
		if best == nil || abs(shift) < abs(*best) {
			s := shift
			best = &s
		}
	}

	for _, v := range virtuals {
		others := occupants(v.TrackIndex)
		for _, other := range others {
			if !Overlaps(other, v.From, v.Duration) {
				continue
			}
			if left := AlternativeForCollisionLeft(other, others, v.Duration); left != nil {
				consider(*left - v.From)
			}
			if right := AlternativeForCollisionRight(other, others, v.Duration); right != nil {
				consider(*right - v.From)
			}
		}
	}
	return best
}

func groupShiftValid(virtuals []VirtualItem, occupants func(trackIndex int) []*timeline.Item, shift int) bool {
	for _, v := range virtuals {
		from := v.From + shift
		if from < 0 {
			return false
		}
		for _, other := range occupants(v.TrackIndex) {
			if Overlaps(other, from, v.Duration) {
				return false
			}
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
