package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FileStore defines the contract for avatar storage backends.
type FileStore interface {
	// SaveBase64 decodes the payload, stores it under a freshly generated
	// name and returns the location to persist on the user record.
	SaveBase64(ctx context.Context, content string) (string, error)
	// DeleteFile removes a stored file. Missing or unknown paths are a no-op.
	DeleteFile(ctx context.Context, path string) error
	// ReplaceFile deletes oldPath (if any) and then saves the new content.
	ReplaceFile(ctx context.Context, content string, oldPath *string) (string, error)
}

var errEmptyPayload = errors.New("empty file payload")

// DecodeBase64 decodes standard base64, tolerating a data URL prefix
// ("data:image/png;base64,") and missing padding.
func DecodeBase64(content string) ([]byte, error) {
	payload := strings.TrimSpace(content)
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	if payload == "" {
		return nil, errEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		data = raw
	}
	return data, nil
}

func newFileName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ".jpg"
}
