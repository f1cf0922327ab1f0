// Package timeline defines the canonical document model of the editor:
// tracks, items, assets, and the undoable document that holds them.
// Everything here is plain data; the packages trackops, gesture and
// editor operate on it without mutating shared snapshots in place.
package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemImage    ItemKind = "image"
	ItemVideo    ItemKind = "video"
	ItemAudio    ItemKind = "audio"
	ItemGIF      ItemKind = "gif"
	ItemText     ItemKind = "text"
	ItemSolid    ItemKind = "solid"
	ItemCaptions ItemKind = "captions"
)

type AssetKind string

const (
	AssetImage   AssetKind = "image"
	AssetVideo   AssetKind = "video"
	AssetGIF     AssetKind = "gif"
	AssetAudio   AssetKind = "audio"
	AssetCaption AssetKind = "caption"
)

// Track is a lane on the timeline. Items placed on it must not overlap
// in time; the order of ItemIDs carries no meaning, membership plus each
// item's From defines the visual layout.
type Track struct {
	ID      string   `json:"id"`
	ItemIDs []string `json:"items"`
	Hidden  bool     `json:"hidden"`
	Muted   bool     `json:"muted"`
}

// Item is a single placed clip or element. Kind tags the variant; media
// variants additionally reference an asset and carry a media start
// offset in asset seconds plus a playback rate.
type Item struct {
	ID               string   `json:"id"`
	Kind             ItemKind `json:"kind"`
	From             int      `json:"from"`
	DurationInFrames int      `json:"durationInFrames"`

	Top          float64 `json:"top"`
	Left         float64 `json:"left"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Rotation     float64 `json:"rotation"`
	Opacity      float64 `json:"opacity"`
	BorderRadius float64 `json:"borderRadius"`

	// Media variants only.
	AssetID             string  `json:"assetId,omitempty"`
	MediaStartInSeconds float64 `json:"mediaStartInSeconds,omitempty"`
	PlaybackRate        float64 `json:"playbackRate,omitempty"`

	// Text and solid variants.
	Text  string `json:"text,omitempty"`
	Color string `json:"color,omitempty"`

	FadeInFrames  int `json:"fadeInFrames,omitempty"`
	FadeOutFrames int `json:"fadeOutFrames,omitempty"`

	// Transient UI flag, never persisted.
	IsDraggingInTimeline bool `json:"-"`
}

// End returns the exclusive right edge of the item's frame range.
func (it *Item) End() int {
	return it.From + it.DurationInFrames
}

// Rate returns the effective playback rate, defaulting to 1.
func (it *Item) Rate() float64 {
	if it.PlaybackRate > 0 {
		return it.PlaybackRate
	}
	return 1
}

// HasAsset reports whether the item's kind references an asset.
// The switch is exhaustive over ItemKind; an unknown tag panics via
// UnknownKind so schema drift surfaces instead of being ignored.
func (it *Item) HasAsset() bool {
	switch it.Kind {
	case ItemImage, ItemVideo, ItemAudio, ItemGIF, ItemCaptions:
		return true
	case ItemText, ItemSolid:
		return false
	default:
		panic(UnknownKind("item", string(it.Kind)))
	}
}

// CaptionCue is one timed caption line of a caption asset.
type CaptionCue struct {
	Text    string `json:"text"`
	StartMs int    `json:"startMs"`
	EndMs   int    `json:"endMs"`
}

// Asset is a shared underlying media source. Many items may reference
// one asset id; items do not own the asset's lifecycle.
type Asset struct {
	ID            string    `json:"id"`
	Kind          AssetKind `json:"kind"`
	Filename      string    `json:"filename"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mimeType"`
	RemoteURL     string    `json:"remoteUrl,omitempty"`
	RemoteFileKey string    `json:"remoteFileKey,omitempty"`

	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	DurationInSeconds float64 `json:"durationInSeconds,omitempty"`
	HasAudioTrack     bool    `json:"hasAudioTrack,omitempty"`

	Cues []CaptionCue `json:"cues,omitempty"`
}

// DeletedAsset records an asset removed from the document so remote
// storage can be cleaned up out of band.
type DeletedAsset struct {
	AssetID       string `json:"assetId"`
	RemoteURL     string `json:"remoteUrl,omitempty"`
	RemoteFileKey string `json:"remoteFileKey,omitempty"`
	UploadStatus  string `json:"uploadStatus,omitempty"`
}

// UnknownKind builds the error raised when an exhaustive switch meets a
// variant tag it does not know. It carries the offending value and must
// not be caught and ignored; it indicates schema drift.
func UnknownKind(what, tag string) error {
	return fmt.Errorf("unknown %s kind %q", what, tag)
}

// NewID returns a fresh identifier for items, assets and documents.
func NewID() string {
	return uuid.NewString()
}
