// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package images

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// pngHeader is enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantExt string
		wantErr bool
	}{
		{"png", pngHeader, ".png", false},
		{"gif", []byte("GIF89a......"), ".gif", false},
		{"jpeg", []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF"), ".jpg", false},
		{"text", []byte("hello world"), "", true},
		{"empty", nil, "", true},
		{"too large", append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxSize)...), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := Validate(tt.data)
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidationFailed) {
					t.Errorf("Expected ErrValidationFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if ext != tt.wantExt {
				t.Errorf("Expected %s, got %s", tt.wantExt, ext)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s, err := NewFileStore(dir, "/images/")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	url, err := s.Save(ctx, pngHeader)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(url, "/images/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected URL %s", url)
	}

	stored := filepath.Join(dir, path.Base(url))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("Image not written: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Error("Stored image differs")
	}

	if err := s.Delete(ctx, url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("Expected image to be removed")
	}

	// Deleting twice or deleting foreign URLs is a no-op
	if err := s.Delete(ctx, url); err != nil {
		t.Errorf("Second delete failed: %v", err)
	}
	if err := s.Delete(ctx, "https://example.com/x.png"); err != nil {
		t.Errorf("Foreign delete failed: %v", err)
	}

	if _, err := s.Save(ctx, []byte("not an image")); !errors.Is(err, models.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got %v", err)
	}
}
