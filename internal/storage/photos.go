// Package storage persists uploaded vehicle photos on the local
// filesystem under content-safe generated names.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxPhotoSize is the largest accepted upload, 5 MB.
const MaxPhotoSize = 5 << 20

// allowedExts is the photo extension allow-list.
var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ErrBadExtension is returned when the uploaded filename's extension is
// not in the allow-list.
var ErrBadExtension = errors.New("file extension not allowed")

// ErrTooLarge is returned when the upload exceeds MaxPhotoSize.
var ErrTooLarge = errors.New("file exceeds maximum size")

// PhotoStore saves and deletes photo assets inside a base directory.
type PhotoStore struct {
	dir string
}

// NewPhotoStore returns a store rooted at dir. The directory is created
// lazily on the first save.
func NewPhotoStore(dir string) *PhotoStore { return &PhotoStore{dir: dir} }

// Save writes the upload to disk under a generated name that keeps only
// the original extension, and returns the stored path relative to the
// store root joined with the directory (e.g. "uploads/3f1c....jpg").
// The size is validated before any bytes are read; the reader is also
// capped so a lying Content-Length cannot bypass the limit.
func (s *PhotoStore) Save(filename string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", ErrBadExtension
	}
	if size > MaxPhotoSize {
		return "", ErrTooLarge
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	// Read one byte past the limit to detect oversized streams.
	n, err := io.Copy(f, io.LimitReader(r, MaxPhotoSize+1))
	cerr := f.Close()
	if err == nil && cerr != nil {
		err = cerr
	}
	if err == nil && n > MaxPhotoSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return filepath.ToSlash(path), nil
}

// Remove deletes a stored photo by the path Save returned. An already
// absent file is not an error.
func (s *PhotoStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
