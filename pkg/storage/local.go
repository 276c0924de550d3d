package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anoa.com/userdirectory/pkg/apperror"
)

// LocalStore keeps files in a directory on the local filesystem.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates baseDir if it does not exist yet.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		return nil, errors.New("upload directory is not configured")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) SaveBase64(ctx context.Context, content string) (string, error) {
	data, err := DecodeBase64(content)
	if err != nil {
		return "", apperror.Storage(err)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", apperror.Storage(fmt.Errorf("mkdir %s: %w", s.baseDir, err))
	}

	path := filepath.Join(s.baseDir, newFileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperror.Storage(fmt.Errorf("write %s: %w", path, err))
	}

	return path, nil
}

func (s *LocalStore) DeleteFile(ctx context.Context, path string) error {
	if path == "" || !s.contains(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperror.Storage(fmt.Errorf("remove %s: %w", path, err))
	}
	return nil
}

func (s *LocalStore) ReplaceFile(ctx context.Context, content string, oldPath *string) (string, error) {
	if oldPath != nil {
		if err := s.DeleteFile(ctx, *oldPath); err != nil {
			return "", err
		}
	}
	return s.SaveBase64(ctx, content)
}

func (s *LocalStore) contains(path string) bool {
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return false
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
