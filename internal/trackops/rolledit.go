package trackops

import (
	"github.com/framecut/framecut/internal/timeline"
)

// RollEditPair is a precomputed adjacency: two items that are exactly
// edge-adjacent on one track, left.End() == right.From.
type RollEditPair struct {
	LeftID  string
	RightID string
}

// FindRollEditPair verifies that the two items form a valid roll-edit
// adjacency and returns the pair, or false.
func FindRollEditPair(doc *timeline.Document, leftID, rightID string) (RollEditPair, bool) {
	left, ok := doc.Items[leftID]
	if !ok {
		return RollEditPair{}, false
	}
	right, ok := doc.Items[rightID]
	if !ok {
		return RollEditPair{}, false
	}
	if doc.TrackOf(leftID) != doc.TrackOf(rightID) {
		return RollEditPair{}, false
	}
	if left.End() != right.From {
		return RollEditPair{}, false
	}
	return RollEditPair{LeftID: leftID, RightID: rightID}, true
}

// RollEditOffsetBounds returns the clamped range the shared boundary
// may move, as a [min, max] offset relative to its current frame. Both
// items' own constraints apply: neither may shrink below one frame, and
// the growing side is capped by its media head-room and its outer
// neighbors.
func RollEditOffsetBounds(doc *timeline.Document, pair RollEditPair) (min, max int) {
	left := doc.Items[pair.LeftID]
	right := doc.Items[pair.RightID]
	if left == nil || right == nil {
		return 0, 0
	}
	boundary := left.End()

	ignoreRight := map[string]bool{pair.RightID: true}
	ignoreLeft := map[string]bool{pair.LeftID: true}

	// Moving right: left grows toward its max end, right shrinks.
	leftBounds := ExtendBounds(doc, pair.LeftID, ignoreRight)
	max = leftBounds.MaxEnd - boundary
	if shrink := right.DurationInFrames - 1; shrink < max {
		max = shrink
	}

	// Moving left: right grows toward its min start, left shrinks.
	rightBounds := ExtendBounds(doc, pair.RightID, ignoreLeft)
	min = rightBounds.MinFrom - boundary
	if shrink := -(left.DurationInFrames - 1); shrink > min {
		min = shrink
	}

	if max < 0 {
		max = 0
	}
	if min > 0 {
		min = 0
	}
	return min, max
}

// RollEdit moves the shared boundary of the pair by offset frames,
// shrinking one item exactly as its neighbor grows. The offset is
// clamped against both items' constraints, and the shrink is applied
// before the grow so the two items never overlap at an intermediate
// step.
func RollEdit(doc *timeline.Document, pair RollEditPair, offset int) *timeline.Document {
	if _, ok := FindRollEditPair(doc, pair.LeftID, pair.RightID); !ok {
		return doc
	}

	min, max := RollEditOffsetBounds(doc, pair)
	offset = clamp(offset, min, max)
	if offset == 0 {
		return doc
	}

	ignoreLeft := map[string]bool{pair.LeftID: true}
	ignoreRight := map[string]bool{pair.RightID: true}

	if offset > 0 {
		// Boundary moves right: shrink the right item first.
		nd := ExtendLeft(doc, pair.RightID, offset, ignoreLeft)
		return ExtendRight(nd, pair.LeftID, offset, ignoreRight)
	}
	// Boundary moves left: shrink the left item first.
	nd := ExtendRight(doc, pair.LeftID, offset, ignoreRight)
	return ExtendLeft(nd, pair.RightID, offset, ignoreLeft)
}
