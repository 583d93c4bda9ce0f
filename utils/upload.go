// utils/upload.go
package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tournament-booking-system/config"

	"github.com/google/uuid"
)

// MaxProofSize caps deposit proof images.
const MaxProofSize = 10 * 1024 * 1024

var ErrNotImage = errors.New("upload is not an image")

// Upload is an in-memory file ready to be stored.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProofUploader stores a deposit proof under key and returns its public URL.
type ProofUploader interface {
	Upload(ctx context.Context, key string, f *Upload) (string, error)
}

// ReadUpload reads a multipart image into memory. The content type is sniffed
// from the bytes; the client's declared type is ignored.
func ReadUpload(fileHeader *multipart.FileHeader) (*Upload, error) {
	if fileHeader.Size > MaxProofSize {
		return nil, fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxProofSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxProofSize {
		return nil, fmt.Errorf("file too large")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}
	return &Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ProofKey builds the object key for a user's proof, e.g. "proofs/<uid>/<uuid>.jpg".
func ProofKey(uid, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("proofs/%s/%s%s", uid, uuid.NewString(), ext)
}

// NewProofUploader picks the uploader configured by PROOF_STORAGE.
func NewProofUploader(ctx context.Context, cfg config.ProofStorageConfig) (ProofUploader, error) {
	switch cfg.Provider {
	case "r2":
		return NewR2Uploader(ctx, cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2Bucket, cfg.CDNBaseURL)
	case "cloudinary":
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	case "local", "":
		return NewLocalUploader(cfg.LocalDir, cfg.LocalBaseURL)
	}
	return nil, fmt.Errorf("unknown proof storage provider: %s", cfg.Provider)
}
