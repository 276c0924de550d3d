package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"anoa.com/userdirectory/pkg/apperror"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds credentials for the Cloudinary backend. When URL is
// set it takes precedence over the individual fields.
type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryStore keeps avatars in Cloudinary and returns secure URLs as paths.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	folder := cfg.Folder
	if folder == "" {
		folder = "avatars"
	}

	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) SaveBase64(ctx context.Context, content string) (string, error) {
	data, err := DecodeBase64(content)
	if err != nil {
		return "", apperror.Storage(err)
	}

	name := newFileName()
	params := uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       strings.TrimSuffix(name, filepath.Ext(name)),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", apperror.Storage(fmt.Errorf("failed to upload image to cloudinary: %w", err))
	}
	if resp.Error.Message != "" {
		return "", apperror.Storage(fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message))
	}
	if resp.SecureURL == "" {
		return "", apperror.Storage(fmt.Errorf("cloudinary upload succeeded but secure URL is empty"))
	}

	return resp.SecureURL, nil
}

func (s *CloudinaryStore) DeleteFile(ctx context.Context, path string) error {
	publicID := extractPublicID(path)
	if publicID == "" {
		return nil
	}

	params := uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return apperror.Storage(fmt.Errorf("failed to delete image from cloudinary: %w", err))
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return apperror.Storage(fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result))
	}

	return nil
}

func (s *CloudinaryStore) ReplaceFile(ctx context.Context, content string, oldPath *string) (string, error) {
	if oldPath != nil {
		if err := s.DeleteFile(ctx, *oldPath); err != nil {
			return "", err
		}
	}
	return s.SaveBase64(ctx, content)
}

// extractPublicID extracts the public ID from a Cloudinary URL.
// Example: https://res.cloudinary.com/demo/image/upload/v123456789/avatars/abc.jpg -> avatars/abc
func extractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host == "" {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	relevantParts := parts[uploadIndex+1:]

	if len(relevantParts) > 1 && isVersionSegment(relevantParts[0]) {
		relevantParts = relevantParts[1:]
	}

	publicIDWithExt := strings.Join(relevantParts, "/")
	return strings.TrimSuffix(publicIDWithExt, filepath.Ext(publicIDWithExt))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
