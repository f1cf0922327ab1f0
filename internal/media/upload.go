package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/framecut/framecut/internal/timeline"
)

// UploadTicket is a time-limited write location for a raw file plus the
// public read URL the asset will have once the upload completes.
type UploadTicket struct {
	WriteURL  string
	ReadURL   string
	FileKey   string
	ExpiresAt time.Time
}

// ProgressFunc receives byte-level progress. total may be zero when the
// size is unknown.
type ProgressFunc func(done, total int64)

// UploadService hands out upload tickets and moves bytes. Completion
// transitions the referencing asset's status to uploaded in the
// editor's ephemeral asset-status map; the caller owns that write.
type UploadService interface {
	CreateTicket(ctx context.Context, filename, mimeType string, size int64) (*UploadTicket, error)
	Upload(ctx context.Context, ticket *UploadTicket, r io.Reader, progress ProgressFunc) error
}

// CaptionService turns an audio-bearing asset into timed caption cues.
type CaptionService interface {
	Transcribe(ctx context.Context, assetID string, r io.Reader) ([]timeline.CaptionCue, error)
}

// Cleaner removes remote objects recorded in the deletedAssets ledger.
type Cleaner interface {
	Remove(ctx context.Context, remoteFileKey string) error
}

// CleanupDeletedAssets asks the cleaner to remove every remote object
// recorded in the document's deleted-asset ledger and returns the
// document with the processed entries cleared, plus the number of
// entries cleared. Entries that never reached remote storage have
// nothing to remove and are cleared outright. Entries whose removal
// fails stay in the ledger for a later retry. The input document is
// not mutated.
func CleanupDeletedAssets(ctx context.Context, doc *timeline.Document, cleaner Cleaner) (*timeline.Document, int, error) {
	if len(doc.DeletedAssets) == 0 {
		return doc, 0, nil
	}

	var kept []timeline.DeletedAsset
	var errs []error
	cleared := 0
	for _, entry := range doc.DeletedAssets {
		key := entry.RemoteFileKey
		if key == "" {
			key = entry.RemoteURL
		}
		if key == "" {
			cleared++
			continue
		}
		if err := cleaner.Remove(ctx, key); err != nil {
			kept = append(kept, entry)
			errs = append(errs, fmt.Errorf("asset %s: %w", entry.AssetID, err))
			continue
		}
		cleared++
	}

	if cleared == 0 {
		return doc, 0, errors.Join(errs...)
	}
	nd := doc.Clone()
	nd.DeletedAssets = kept
	return nd, cleared, errors.Join(errs...)
}

// StubUploadService logs requests and reports immediate completion.
type StubUploadService struct {
	logger *slog.Logger
}

func NewStubUploadService(logger *slog.Logger) *StubUploadService {
	return &StubUploadService{logger: logger}
}

func (s *StubUploadService) CreateTicket(ctx context.Context, filename, mimeType string, size int64) (*UploadTicket, error) {
	if s.logger != nil {
		s.logger.Info("upload stub: ticket requested", "filename", filename, "size", size)
	}
	key := timeline.NewID()
	return &UploadTicket{
		WriteURL:  "stub://write/" + key,
		ReadURL:   "stub://read/" + key,
		FileKey:   key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (s *StubUploadService) Upload(ctx context.Context, ticket *UploadTicket, r io.Reader, progress ProgressFunc) error {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return err
	}
	if progress != nil {
		progress(n, n)
	}
	if s.logger != nil {
		s.logger.Info("upload stub: upload completed", "file_key", ticket.FileKey, "bytes", n)
	}
	return nil
}

// StubCaptionService returns no cues.
type StubCaptionService struct {
	logger *slog.Logger
}

func NewStubCaptionService(logger *slog.Logger) *StubCaptionService {
	return &StubCaptionService{logger: logger}
}

func (s *StubCaptionService) Transcribe(ctx context.Context, assetID string, r io.Reader) ([]timeline.CaptionCue, error) {
	if s.logger != nil {
		s.logger.Info("caption stub: transcription requested", "asset_id", assetID)
	}
	return nil, nil
}

// StubCleaner logs cleanup requests from the deletedAssets ledger.
type StubCleaner struct {
	logger *slog.Logger
}

func NewStubCleaner(logger *slog.Logger) *StubCleaner {
	return &StubCleaner{logger: logger}
}

func (s *StubCleaner) Remove(ctx context.Context, remoteFileKey string) error {
	if s.logger != nil {
		s.logger.Info("cleanup stub: remote removal requested", "file_key", remoteFileKey)
	}
	return nil
}
