package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxImageBytes caps a single upload when no limit is configured.
const DefaultMaxImageBytes int64 = 5 << 20

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum upload size")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrEmptyImage       = errors.New("image is empty")
	ErrInvalidImageName = errors.New("invalid image name")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore keeps product images as flat files in a single directory.
// Stored names are generated, so concurrent uploads never collide.
type ImageStore struct {
	baseDir  string
	maxBytes int64
}

// NewImageStore creates the directory if needed.
func NewImageStore(baseDir string, maxBytes int64) (*ImageStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", baseDir, err)
	}
	return &ImageStore{baseDir: baseDir, maxBytes: maxBytes}, nil
}

// Dir is the directory served under /uploads/products.
func (s *ImageStore) Dir() string { return s.baseDir }

// Save validates the content by sniffing it and writes it under a new name.
// The returned name is what gets persisted on the product.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w (%d bytes)", ErrImageTooLarge, s.maxBytes)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.baseDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing image file: %w", err)
	}
	return name, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *ImageStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image %s: %w", name, err)
	}
	return nil
}

// Path resolves a stored name to its file, rejecting anything that is not a bare filename.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidImageName
	}
	return filepath.Join(s.baseDir, name), nil
}
