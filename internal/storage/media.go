// ABOUTME: Session media rows: images and videos attached to a session.
// ABOUTME: File reclamation is left to the media library that owns the files.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/trainlog/internal/models"
)

const mediaColumns = "id, session_id, uri, thumb_uri, type, width, height, duration_sec, created_at"

// AddSessionMedia records an attachment and sets m.ID.
func (d *DB) AddSessionMedia(ctx context.Context, m *models.SessionMedia) (int64, error) {
	return insertMedia(ctx, d.db, m)
}

func insertMedia(ctx context.Context, q querier, m *models.SessionMedia) (int64, error) {
	if !m.Type.IsValid() {
		return 0, fmt.Errorf("%w: media type %q", ErrInvalidInput, m.Type)
	}
	if m.URI == "" {
		return 0, fmt.Errorf("%w: empty media uri", ErrInvalidInput)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO training_session_media
			(session_id, uri, thumb_uri, type, width, height, duration_sec, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.SessionID, m.URI, m.ThumbURI, string(m.Type), m.Width, m.Height, m.DurationSec,
		m.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert session media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert session media: %w", err)
	}
	m.ID = id
	return id, nil
}

// ListSessionMedia returns the attachments of a session, oldest first.
func (d *DB) ListSessionMedia(ctx context.Context, sessionID int64) ([]*models.SessionMedia, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT "+mediaColumns+" FROM training_session_media WHERE session_id = ? ORDER BY created_at ASC, id ASC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session media: %w", err)
	}
	defer rows.Close()

	var media []*models.SessionMedia
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// GetSessionMediaByID retrieves one attachment.
func (d *DB) GetSessionMediaByID(ctx context.Context, id int64) (*models.SessionMedia, error) {
	return getMedia(ctx, d.db, id)
}

// DeleteSessionMedia removes an attachment row and returns it so the caller
// can reclaim the underlying files.
func (d *DB) DeleteSessionMedia(ctx context.Context, id int64) (*models.SessionMedia, error) {
	var removed *models.SessionMedia
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		m, err := getMedia(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM training_session_media WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete session media: %w", err)
		}
		removed = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func getMedia(ctx context.Context, q querier, id int64) (*models.SessionMedia, error) {
	row := q.QueryRowContext(ctx, "SELECT "+mediaColumns+" FROM training_session_media WHERE id = ?", id)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("media %d: %w", id, ErrNotFound)
	}
	return m, err
}

func scanMedia(row scanner) (*models.SessionMedia, error) {
	var m models.SessionMedia
	var thumb sql.NullString
	var width, height sql.NullInt64
	var duration sql.NullFloat64
	var mediaType, createdAt string

	err := row.Scan(&m.ID, &m.SessionID, &m.URI, &thumb, &mediaType, &width, &height, &duration, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session media: %w", err)
	}

	m.Type = models.MediaType(mediaType)
	m.CreatedAt = parseTimestamp(createdAt)
	if thumb.Valid {
		m.ThumbURI = &thumb.String
	}
	if width.Valid {
		w := int(width.Int64)
		m.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		m.Height = &h
	}
	if duration.Valid {
		m.DurationSec = &duration.Float64
	}
	return &m, nil
}
