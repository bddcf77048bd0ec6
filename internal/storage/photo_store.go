package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotAnImage is returned when the uploaded file is not an image.
	ErrNotAnImage = errors.New("please upload an image file")
	// ErrFileTooLarge is returned when the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("uploaded file exceeds the maximum size")
)

// PhotoStore writes bootcamp photos to the local filesystem under
// deterministic names so re-uploads overwrite the previous photo.
type PhotoStore struct {
	dir     string
	maxSize int64
}

// NewPhotoStore creates a photo store rooted at dir with the given size limit in bytes.
func NewPhotoStore(dir string, maxSize int64) *PhotoStore {
	return &PhotoStore{dir: dir, maxSize: maxSize}
}

// Save validates and persists a bootcamp photo, returning the stored file
// name. The content type must be image/* and size must not exceed the limit.
func (s *PhotoStore) Save(bootcampID uuid.UUID, originalName, contentType string, size int64, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("photo_%s%s", bootcampID, filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against a lying Content-Length.
	if _, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1)); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}

	return name, nil
}
