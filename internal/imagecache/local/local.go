package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/edulife/edulife-admin/internal/imagecache"
)

// extensions are tried in order when looking a key up.
var extensions = []string{".jpg", ".png", ".gif", ".webp"}

// LocalImageStore keeps images as <key><ext> files under basePath.
type LocalImageStore struct {
	basePath string
}

func NewLocalImageStore(basePath string) (*LocalImageStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalImageStore{basePath: basePath}, nil
}

// Put writes r under key, replacing any earlier copy. The file is written to
// a temporary name first so readers never see a partial image.
func (s *LocalImageStore) Put(ctx context.Context, key, mimeType string, r io.Reader) error {
	filePath, err := s.safeJoin(key + mimeTypeToExt(mimeType))
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.basePath, "put-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(tmpPath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(tmpPath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := s.Delete(ctx, key); err != nil && !errors.Is(err, imagecache.ErrNotFound) {
		slog.Warn("failed to remove previous image", "key", key, "error", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

func (s *LocalImageStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	for _, ext := range extensions {
		filePath, err := s.safeJoin(key + ext)
		if err != nil {
			return nil, "", err
		}
		f, err := os.Open(filePath)
		if err == nil {
			return f, extToMimeType(filePath), nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("failed to open file: %w", err)
		}
	}
	return nil, "", imagecache.ErrNotFound
}

// Delete removes every stored copy of key.
func (s *LocalImageStore) Delete(ctx context.Context, key string) error {
	removed := false
	for _, ext := range extensions {
		filePath, err := s.safeJoin(key + ext)
		if err != nil {
			return err
		}
		if err := os.Remove(filePath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to delete file: %w", err)
		}
		removed = true
	}
	if !removed {
		return imagecache.ErrNotFound
	}
	return nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *LocalImageStore) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func extToMimeType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
