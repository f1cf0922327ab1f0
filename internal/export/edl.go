package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders the flattened clips as a CMX3600 list. Record
// times run back to back from zero; gaps in the timeline collapse.
func GenerateEDL(clips []Clip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if isDropFrame {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	recordOffsetMs := 0
	for i, clip := range clips {
		durationMs := clip.EndMs - clip.StartMs

		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, "AX", "V",
			msToTimecode(clip.StartMs, fps),
			msToTimecode(clip.EndMs, fps),
			msToTimecode(recordOffsetMs, fps),
			msToTimecode(recordOffsetMs+durationMs, fps),
		)
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", clip.Name)
		fmt.Fprintf(&b, "* MEDIA PATH:  %s\n", clip.MediaPath)

		recordOffsetMs += durationMs
	}

	b.WriteString("\n")
	return b.String()
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
