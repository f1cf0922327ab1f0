// Package geometry holds the pure interval math of the timeline:
// overlap tests, alternative-position search on collision, and the
// frame/pixel/second conversions the gesture engines run every tick.
package geometry

import "math"

// PixelsToFrames converts a horizontal pixel delta into frames at the
// current zoom level.
func PixelsToFrames(px, pixelsPerFrame float64) int {
	if pixelsPerFrame <= 0 {
		return 0
	}
	return int(math.Round(px / pixelsPerFrame))
}

// FramesToPixels converts a frame count into pixels at the current
// zoom level.
func FramesToPixels(frames int, pixelsPerFrame float64) float64 {
	return float64(frames) * pixelsPerFrame
}

// SecondsToFrames converts media seconds into whole frames at fps.
func SecondsToFrames(seconds, fps float64) int {
	return int(math.Round(seconds * fps))
}

// FramesToSeconds converts frames into seconds at fps.
func FramesToSeconds(frames int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / fps
}
