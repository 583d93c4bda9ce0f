package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes proofs below Dir and serves them from BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := EnsureUploadDir(dir); err != nil {
		return nil, err
	}
	return &LocalUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// EnsureUploadDir creates the uploads directory if it doesn't exist
func EnsureUploadDir(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

func (u *LocalUploader) Upload(ctx context.Context, key string, f *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + key)
	destPath := filepath.Join(u.Dir, clean)
	if err := SaveFile(f.Data, destPath); err != nil {
		return "", fmt.Errorf("failed to save proof: %w", err)
	}
	return u.BaseURL + filepath.ToSlash(clean), nil
}

// SaveFile writes data to destPath, creating parent directories.
func SaveFile(data []byte, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}
