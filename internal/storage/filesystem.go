// Package storage persists generated concept images onto the local
// filesystem. It stands in for an object storage service in development and
// test environments; the delivery layer owns durable asset storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pipeline/internal/domain"
	"pipeline/internal/providers/genimage"
)

// FileStore writes concept image bytes under a base directory, one
// subdirectory per batch.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Save persists one attempt's image and returns its path relative to the
// store root. The key layout is <batch>/<style>-attempt<n>.<format>.
func (s *FileStore) Save(ctx context.Context, batchID string, styleID domain.StyleID, attempt int, img *genimage.Image) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || len(img.Data) == 0 {
		return "", errors.New("storage: image has no data")
	}
	format := img.Format
	if format == "" {
		format = "png"
	}
	key, err := sanitizeKey(fmt.Sprintf("%s/%s-attempt%d.%s", batchID, styleID, attempt, format))
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return key, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
