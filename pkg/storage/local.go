// Package storage keeps uploaded images on local disk and hands back their public path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("only jpeg, png and webp images are allowed")
)

// allowedTypes maps accepted image content types to file extensions
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FileStore persists an upload and returns the URL path it is served from
type FileStore interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// LocalStore writes files under Dir and serves them from URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func NewLocalStore(dir string, maxBytes int64) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: "/uploads", MaxBytes: maxBytes}
}

// Save stores the file as <folder>/<uuid><ext>
func (s *LocalStore) Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.MaxBytes > 0 && file.Size > s.MaxBytes {
		return "", ErrFileTooLarge
	}
	ext, ok := allowedTypes[strings.ToLower(file.Header.Get("Content-Type"))]
	if !ok {
		return "", ErrInvalidContentType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path.Join(s.URLPrefix, folder, name), nil
}

// Remove deletes a file previously returned by Save. Unknown paths are ignored.
func (s *LocalStore) Remove(_ context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, s.URLPrefix+"/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
