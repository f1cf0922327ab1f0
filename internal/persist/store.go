package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/framecut/framecut/internal/media"
	"github.com/framecut/framecut/internal/timeline"
)

var (
	// ErrUploadsInFlight means a referenced asset is still uploading.
	ErrUploadsInFlight = errors.New("save refused: asset uploads in flight")
	// ErrAssetErrors means a referenced asset is in an error state.
	ErrAssetErrors = errors.New("save refused: assets in error state")
)

// Store reads and writes serialized documents. Load returns (nil, nil)
// for an unknown document id; a malformed stored body is reported via
// timeline.ErrInvalidDocument so the caller can fall back to a blank
// document instead of loading a partial one.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DocumentInfo is a listing row.
type DocumentInfo struct {
	ID        string
	UpdatedAt time.Time
}

func (s *Store) Load(ctx context.Context, documentID string) (*timeline.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE id = ?`, documentID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
	}

	doc, err := timeline.Decode([]byte(body))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stored document failed validation", "document_id", documentID, "error", err)
		}
		return nil, err
	}
	return doc, nil
}

// LoadOrBlank loads a document, falling back to a blank document when
// the id is unknown or the stored body fails validation.
func (s *Store) LoadOrBlank(ctx context.Context, documentID string, fps float64, width, height int) (*timeline.Document, error) {
	doc, err := s.Load(ctx, documentID)
	if err != nil && !errors.Is(err, timeline.ErrInvalidDocument) {
		return nil, err
	}
	if doc == nil {
		return timeline.Blank(fps, width, height), nil
	}
	return doc, nil
}

// Save writes the document and the asset-status snapshot in one
// transaction. It fails loudly, never partially: any referenced asset
// that is mid-upload or errored refuses the whole save.
func (s *Store) Save(ctx context.Context, doc *timeline.Document, statuses map[string]media.UploadState, documentID string) error {
	for assetID := range doc.Assets {
		st, ok := statuses[assetID]
		if !ok {
			continue
		}
		if st.InFlight() {
			return fmt.Errorf("%w: asset %s is %s", ErrUploadsInFlight, assetID, st.Status)
		}
		if st.Errored() {
			return fmt.Errorf("%w: asset %s", ErrAssetErrors, assetID)
		}
	}

	body, err := timeline.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, documentID, string(body), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM asset_status WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to clear asset statuses: %w", err)
	}
	for assetID, st := range statuses {
		if _, ok := doc.Assets[assetID]; !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO asset_status (document_id, asset_id, status, bytes_uploaded, bytes_total, remote_url, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, documentID, assetID, string(st.Status), st.BytesUploaded, st.BytesTotal,
			nullString(st.RemoteURL), nullString(st.Err))
		if err != nil {
			return fmt.Errorf("failed to write asset status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("document saved", "document_id", documentID, "items", len(doc.Items))
	}
	return nil
}

// AssetStatuses returns the status snapshot stored with a document.
func (s *Store) AssetStatuses(ctx context.Context, documentID string) (map[string]media.UploadState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, status, bytes_uploaded, bytes_total, remote_url, error
		FROM asset_status WHERE document_id = ?
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := map[string]media.UploadState{}
	for rows.Next() {
		var assetID, status string
		var uploaded, total int64
		var remoteURL, errMsg sql.NullString
		if err := rows.Scan(&assetID, &status, &uploaded, &total, &remoteURL, &errMsg); err != nil {
			return nil, err
		}
		statuses[assetID] = media.UploadState{
			Status:        media.UploadStatus(status),
			BytesUploaded: uploaded,
			BytesTotal:    total,
			RemoteURL:     remoteURL.String,
			Err:           errMsg.String,
		}
	}
	return statuses, rows.Err()
}

// List returns the stored documents, most recently updated first.
func (s *Store) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, updated_at FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var updatedAt string
		if err := rows.Scan(&info.ID, &updatedAt); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a document and its status snapshot.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM asset_status WHERE document_id = ?`, documentID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ?`, documentID)
	return err
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
