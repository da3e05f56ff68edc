// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// MaxSize is the largest accepted candidate image
const MaxSize = 5 << 20

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Store keeps candidate images and returns their public URL
type Store interface {
	Save(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Validate checks size and sniffed content type, returning the file extension
func Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", models.ErrValidationFailed)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("%w: image exceeds %d MiB", models.ErrValidationFailed, MaxSize>>20)
	}
	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", models.ErrValidationFailed, contentType)
	}
	return ext, nil
}

// FileStore writes images to a local directory served under BaseURL
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory served by the image file server
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Save(ctx context.Context, data []byte) (string, error) {
	ext, err := Validate(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write image: %v", models.ErrExternalServiceUnavailable, err)
	}

	slog.Info("image stored", "name", name, "bytes", len(data))
	return s.baseURL + "/" + name, nil
}

// Delete removes an image previously returned by Save. Unknown URLs are ignored.
func (s *FileStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	name := path.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// FileServer serves the files in dir. Directory paths answer 404 instead of a listing.
func FileServer(dir string) http.Handler {
	return http.FileServer(filesOnly{http.Dir(dir)})
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
