// Package snap computes the snap points dragged and trimmed edges are
// attracted to: the start and end frames of existing items, matched
// within a pixel-derived threshold.
package snap

import (
	"sort"

	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/timeline"
)

type PointKind string

const (
	PointItemStart PointKind = "item-start"
	PointItemEnd   PointKind = "item-end"
)

// Point is a candidate snap frame. Derived, never persisted.
type Point struct {
	Frame  int
	Kind   PointKind
	ItemID string
}

// Edge is one edge of a dragged item at its tentative position.
type Edge struct {
	ItemID string
	Frame  int
}

// Options controls snapping for one gesture.
type Options struct {
	Enabled        bool
	ThresholdPx    float64
	PixelsPerFrame float64
}

// thresholdFrames converts the pixel threshold at the current zoom.
// A sub-frame threshold still snaps exact matches.
func (o Options) thresholdFrames() int {
	t := geometry.PixelsToFrames(o.ThresholdPx, o.PixelsPerFrame)
	if t < 0 {
		t = 0
	}
	return t
}

// Collect gathers the start and end frames of every item not excluded,
// de-duplicated by frame and sorted ascending.
func Collect(tracks []timeline.Track, items map[string]*timeline.Item, exclude map[string]bool) []Point {
	var points []Point
	seen := map[int]bool{}
	add := func(p Point) {
		if seen[p.Frame] {
			return
		}
		seen[p.Frame] = true
		points = append(points, p)
	}

	for _, tr := range tracks {
		for _, id := range tr.ItemIDs {
			if exclude[id] {
				continue
			}
			it, ok := items[id]
			if !ok {
				continue
			}
			add(Point{Frame: it.From, Kind: PointItemStart, ItemID: it.ID})
			add(Point{Frame: it.End(), Kind: PointItemEnd, ItemID: it.ID})
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Frame < points[j].Frame })
	return points
}

// Nearest finds the snap point closest to target within threshold, or
// nil. Points must be sorted ascending by frame; only the two candidates
// adjacent to the insertion position are compared.
func Nearest(target int, points []Point, thresholdFrames int) *Point {
	if len(points) == 0 {
		return nil
	}
	i := sort.Search(len(points), func(i int) bool { return points[i].Frame >= target })

	var best *Point
	bestDist := thresholdFrames + 1
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(points) {
			continue
		}
		d := abs(points[j].Frame - target)
		if d < bestDist {
			bestDist = d
			p := points[j]
			best = &p
		}
	}
	return best
}

// Apply snaps a single target frame. Returns the (possibly unchanged)
// frame and the winning point, nil when snapping is off, no points
// exist, or nothing is within threshold.
func Apply(target int, points []Point, opts Options) (int, *Point) {
	if !opts.Enabled || len(points) == 0 {
		return target, nil
	}
	p := Nearest(target, points, opts.thresholdFrames())
	if p == nil {
		return target, nil
	}
	return p.Frame, p
}

// BestForEdges evaluates every dragged edge against all snap points and
// returns the signed frame offset of the globally closest match, to be
// applied uniformly to the whole group, plus the winning point. ok is
// false when nothing snapped.
func BestForEdges(edges []Edge, points []Point, opts Options) (offset int, winner *Point, ok bool) {
	if !opts.Enabled || len(points) == 0 || len(edges) == 0 {
		return 0, nil, false
	}
	threshold := opts.thresholdFrames()

	bestDist := threshold + 1
	for _, e := range edges {
		p := Nearest(e.Frame, points, threshold)
		if p == nil {
			continue
		}
		d := abs(p.Frame - e.Frame)
		if d < bestDist {
			bestDist = d
			offset = p.Frame - e.Frame
			winner = p
			ok = true
		}
	}
	return offset, winner, ok
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
