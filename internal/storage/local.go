package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps avatars on the local filesystem; the directory is
// served statically under /avatars by the router.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Save(filename string, reader io.Reader) (string, error) {
	fullPath := filepath.Join(s.basePath, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/avatars/" + filename, nil
}

func (s *LocalStorage) Delete(filename string) error {
	fullPath := filepath.Join(s.basePath, filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
