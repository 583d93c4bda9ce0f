package utils

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader posts proofs to an unsigned Cloudinary upload preset.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

func NewCloudinaryUploader(cloudName, preset string) (*CloudinaryUploader, error) {
	if cloudName == "" || preset == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET are required for cloudinary proof storage")
	}
	// unsigned presets need no api key or secret
	cld, err := cloudinary.NewFromParams(cloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Upload.Client = *HTTPClient
	return &CloudinaryUploader{cld: cld, preset: preset}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, key string, f *Upload) (string, error) {
	res, err := u.cld.Upload.UnsignedUpload(ctx, bytes.NewReader(f.Data), u.preset, uploader.UploadParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", fmt.Errorf("cloudinary returned no result")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response has no secure_url")
	}
	return res.SecureURL, nil
}
