// Package media models the editor's external media collaborators:
// asset upload, playable-URL resolution and caption transcription.
// Service implementations that would require live network access ship
// as stubs; the engine only depends on the interfaces and on the
// status state machines recorded into the editor's ephemeral state.
package media

type UploadStatus string

const (
	UploadPending    UploadStatus = "pending-upload"
	UploadInProgress UploadStatus = "in-progress"
	UploadDone       UploadStatus = "uploaded"
	UploadFailed     UploadStatus = "error"
)

// UploadState is the per-asset upload bookkeeping kept in ephemeral
// editor state. It never enters undo history.
type UploadState struct {
	Status        UploadStatus
	BytesUploaded int64
	BytesTotal    int64
	RemoteURL     string
	Err           string
	CanRetry      bool
}

// InFlight reports whether a save must be refused for this asset.
func (s UploadState) InFlight() bool {
	return s.Status == UploadPending || s.Status == UploadInProgress
}

// Errored reports whether the upload ended in a failure state.
func (s UploadState) Errored() bool {
	return s.Status == UploadFailed
}

// DownloadState tracks byte progress of caching an asset locally.
type DownloadState struct {
	BytesDownloaded int64
	BytesTotal      int64
	LocalURL        string
	Done            bool
}

// CaptionTaskStatus is the small state machine of a transcription
// round-trip.
type CaptionTaskStatus string

const (
	CaptionPending    CaptionTaskStatus = "pending"
	CaptionInProgress CaptionTaskStatus = "in-progress"
	CaptionDone       CaptionTaskStatus = "done"
	CaptionFailed     CaptionTaskStatus = "error"
)

// CaptionTask tracks one transcription request against an asset.
type CaptionTask struct {
	ID      string
	AssetID string
	Status  CaptionTaskStatus
	Err     string
}
