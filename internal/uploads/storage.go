// Package uploads stores post images on local disk and serves them back
// under /uploads. Transport beyond "attach binary to request" is out of
// scope; there is no resizing or deduplication.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ErrUnsupportedType rejects files whose extension is not an image type.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge rejects files exceeding the configured size cap. The cap is
// enforced by rejection; a truncated image would be stored corrupt and
// served as if it were valid.
var ErrTooLarge = errors.New("file too large")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Store persists uploaded images under a single directory with random names.
type Store struct {
	logger   *slog.Logger
	dir      string
	maxBytes int64
}

// NewStore constructs a Store rooted at dir, creating it if needed.
func NewStore(logger *slog.Logger, dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	return &Store{logger: logger, dir: dir, maxBytes: maxBytes}, nil
}

// Save writes an uploaded file to disk and returns its public path
// ("/uploads/<name>"). Names are random so originals cannot collide or be
// guessed. Files above the size cap are rejected with ErrTooLarge and
// nothing is kept on disk.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}

	// Read one byte past the cap so an exactly-at-limit file is
	// distinguishable from an oversized one.
	written, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1))
	closeErr := dst.Close()
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("uploads: close file: %w", closeErr)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}
	return "/uploads/" + name, nil
}

// Remove deletes a stored image by its public path. Missing files are not
// an error; callers use this to undo a Save whose surrounding operation
// failed.
func (s *Store) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, "/uploads/")
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("uploads: remove file: %w", err)
	}
	return nil
}

// Serve streams a stored image. The name is restricted to a bare filename
// so the handler cannot be walked out of the upload directory.
func (s *Store) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// MaxBytes exposes the configured upload limit for request parsing.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}
