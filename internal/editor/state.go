// Package editor owns the single mutable state cell of the editing
// surface: the undoable document, the ephemeral UI/task state around
// it, the bounded undo history, and the double-invocation-safe commit
// protocol every mutation goes through.
package editor

import (
	"github.com/framecut/framecut/internal/media"
	"github.com/framecut/framecut/internal/render"
	"github.com/framecut/framecut/internal/snap"
	"github.com/framecut/framecut/internal/timeline"
)

// TrimBounds is the precomputed extent indicator for an item being
// trimmed.
type TrimBounds struct {
	MinFrom             int
	MaxDurationInFrames int
}

// DefaultSnapThresholdPx is the pixel window within which edges snap.
const DefaultSnapThresholdPx = 10

// Prefs are the user's timeline preferences. Ephemeral.
type Prefs struct {
	SnappingEnabled bool
	SnapThresholdPx float64
	PixelsPerFrame  float64
	TrackHeightPx   float64
	TimelineHeight  float64
}

// State wraps the undoable document with everything that must never
// enter undo history: selection, task bookkeeping, trim indicators and
// view preferences.
type State struct {
	Doc *timeline.Document

	SelectedItems []string
	PlayheadFrame int

	Uploads      map[string]media.UploadState
	Downloads    map[string]media.DownloadState
	RenderJobs   []render.Job
	CaptionTasks []media.CaptionTask

	TrimmingItems   map[string]TrimBounds
	ActiveSnapPoint *snap.Point

	Prefs Prefs
}

// NewState builds an initial state around a document.
func NewState(doc *timeline.Document) State {
	return State{
		Doc:           doc,
		Uploads:       map[string]media.UploadState{},
		Downloads:     map[string]media.DownloadState{},
		TrimmingItems: map[string]TrimBounds{},
		Prefs: Prefs{
			SnappingEnabled: true,
			SnapThresholdPx: DefaultSnapThresholdPx,
			PixelsPerFrame:  2,
			TrackHeightPx:   48,
		},
	}
}

// IsSelected reports whether the item id is in the current selection.
func (s State) IsSelected(id string) bool {
	for _, sel := range s.SelectedItems {
		if sel == id {
			return true
		}
	}
	return false
}

// WithSelection returns the state with a replaced selection.
func (s State) WithSelection(ids []string) State {
	s.SelectedItems = ids
	return s
}

// WithUpload returns the state with one upload entry replaced. The map
// is copied so prior State values stay unchanged.
func (s State) WithUpload(assetID string, st media.UploadState) State {
	next := make(map[string]media.UploadState, len(s.Uploads)+1)
	for k, v := range s.Uploads {
		next[k] = v
	}
	next[assetID] = st
	s.Uploads = next
	return s
}

// WithDownload returns the state with one download entry replaced.
func (s State) WithDownload(assetID string, st media.DownloadState) State {
	next := make(map[string]media.DownloadState, len(s.Downloads)+1)
	for k, v := range s.Downloads {
		next[k] = v
	}
	next[assetID] = st
	s.Downloads = next
	return s
}

// WithRenderJob returns the state with the job's entry replaced, or
// appended when the job id is new. The slice is copied so prior State
// values stay unchanged.
func (s State) WithRenderJob(job render.Job) State {
	next := make([]render.Job, len(s.RenderJobs), len(s.RenderJobs)+1)
	copy(next, s.RenderJobs)
	for i, j := range next {
		if j.ID == job.ID {
			next[i] = job
			s.RenderJobs = next
			return s
		}
	}
	s.RenderJobs = append(next, job)
	return s
}

// WithCaptionTask returns the state with the task's entry replaced, or
// appended when the task id is new.
func (s State) WithCaptionTask(task media.CaptionTask) State {
	next := make([]media.CaptionTask, len(s.CaptionTasks), len(s.CaptionTasks)+1)
	copy(next, s.CaptionTasks)
	for i, ct := range next {
		if ct.ID == task.ID {
			next[i] = task
			s.CaptionTasks = next
			return s
		}
	}
	s.CaptionTasks = append(next, task)
	return s
}

// WithTrimming returns the state with the trimming set replaced.
func (s State) WithTrimming(bounds map[string]TrimBounds) State {
	if bounds == nil {
		bounds = map[string]TrimBounds{}
	}
	s.TrimmingItems = bounds
	return s
}

// filterSelection drops selected ids that no longer exist in the
// document, as after an undo/redo restore.
func (s State) filterSelection() State {
	if len(s.SelectedItems) == 0 {
		return s
	}
	kept := make([]string, 0, len(s.SelectedItems))
	for _, id := range s.SelectedItems {
		if _, ok := s.Doc.Items[id]; ok {
			kept = append(kept, id)
		}
	}
	s.SelectedItems = kept
	return s
}
