// ABOUTME: Filesystem side of session media: copies attachments in and reclaims them on delete.
// ABOUTME: Content types are sniffed from file bytes, never trusted from extensions.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/harperreed/trainlog/internal/models"
)

// ErrUnsupportedType is returned for files that are neither images nor videos.
var ErrUnsupportedType = errors.New("unsupported media type")

type mediaStore interface {
	AddSessionMedia(ctx context.Context, m *models.SessionMedia) (int64, error)
	DeleteSessionMedia(ctx context.Context, id int64) (*models.SessionMedia, error)
}

// Library owns the media directory and keeps it in step with the
// training_session_media rows.
type Library struct {
	store mediaStore
	dir   string
}

// NewLibrary creates a library storing files under dir.
func NewLibrary(store mediaStore, dir string) *Library {
	return &Library{store: store, dir: dir}
}

// Dir returns the directory attachments are copied into.
func (l *Library) Dir() string {
	return l.dir
}

// AttachOptions carries metadata that cannot be sniffed from the file.
type AttachOptions struct {
	// ThumbPath is an optional thumbnail image copied next to the attachment.
	ThumbPath string
	// DurationSec is the clip length for videos.
	DurationSec float64
}

// Attach copies srcPath into the library and records it against the session.
func (l *Library) Attach(ctx context.Context, sessionID int64, srcPath string, opts AttachOptions) (*models.SessionMedia, error) {
	mtype, err := mimetype.DetectFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}

	kind, err := classify(mtype)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.dir, 0750); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}

	id := uuid.NewString()
	dst := filepath.Join(l.dir, id+mtype.Extension())
	if err := copyFile(srcPath, dst); err != nil {
		return nil, err
	}
	written := []string{dst}

	m := models.NewSessionMedia(sessionID, dst, kind)
	if kind == models.MediaImage {
		if w, h, ok := dimensions(dst); ok {
			m.WithDimensions(w, h)
		}
	}
	if kind == models.MediaVideo && opts.DurationSec > 0 {
		m.WithDuration(opts.DurationSec)
	}

	if opts.ThumbPath != "" {
		thumbType, err := mimetype.DetectFile(opts.ThumbPath)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("detect thumbnail type: %w", err), removeAll(written))
		}
		thumb := filepath.Join(l.dir, id+"_thumb"+thumbType.Extension())
		if err := copyFile(opts.ThumbPath, thumb); err != nil {
			return nil, multierr.Append(err, removeAll(written))
		}
		written = append(written, thumb)
		m.WithThumb(thumb)
	}

	if _, err := l.store.AddSessionMedia(ctx, m); err != nil {
		return nil, multierr.Append(fmt.Errorf("record media: %w", err), removeAll(written))
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"media_id":   m.ID,
		"mime":       mtype.String(),
	}).Debug("attached session media")
	return m, nil
}

// Remove deletes the media row and then reclaims its files. Files outside
// the library directory are left alone.
func (l *Library) Remove(ctx context.Context, id int64) (*models.SessionMedia, error) {
	m, err := l.store.DeleteSessionMedia(ctx, id)
	if err != nil {
		return nil, err
	}

	var paths []string
	if l.owns(m.URI) {
		paths = append(paths, m.URI)
	}
	if m.ThumbURI != nil && l.owns(*m.ThumbURI) {
		paths = append(paths, *m.ThumbURI)
	}
	if err := removeAll(paths); err != nil {
		return m, fmt.Errorf("reclaim media files: %w", err)
	}
	return m, nil
}

func (l *Library) owns(path string) bool {
	rel, err := filepath.Rel(l.dir, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

func classify(mtype *mimetype.MIME) (models.MediaType, error) {
	for m := mtype; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return models.MediaImage, nil
		case strings.HasPrefix(m.String(), "video/"):
			return models.MediaVideo, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
}

// dimensions reads the pixel size of formats the standard decoders know.
func dimensions(path string) (int, int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy media file: %w", err)
	}
	return nil
}

func removeAll(paths []string) error {
	var err error
	for _, p := range paths {
		if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierr.Append(err, rmErr)
		}
	}
	return err
}
