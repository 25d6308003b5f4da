package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrOutsideStorage is returned for relative paths that escape the base directory.
var ErrOutsideStorage = errors.New("path is outside storage")

// LocalStorage handles file storage on the local filesystem
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, now: time.Now}, nil
}

// UploadFromBytes saves bytes under subDir/YYYY/MM with a unique name that
// keeps the extension of filename, and returns the relative path.
func (s *LocalStorage) UploadFromBytes(data []byte, filename string, subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir, s.now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := filepath.Ext(filename)
	uniqueFilename := uuid.NewString() + ext
	filePath := filepath.Join(dir, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// ReadFile returns the content of a stored file
func (s *LocalStorage) ReadFile(relativePath string) ([]byte, error) {
	filePath, err := s.resolve(relativePath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filePath)
}

// Delete removes a file. Deleting a file that is already gone is not an error.
func (s *LocalStorage) Delete(relativePath string) error {
	filePath, err := s.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	filePath, err := s.resolve(relativePath)
	if err != nil {
		return false
	}
	_, err = os.Stat(filePath)
	return err == nil
}

// GetFullPath returns the absolute path for serving files
func (s *LocalStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.basePath, relativePath)
}

// RemoveOlderThan deletes regular files under subDir last modified before
// cutoff and returns how many were removed.
func (s *LocalStorage) RemoveOlderThan(subDir string, cutoff time.Time) (int, error) {
	root, err := s.resolve(subDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// resolve joins a relative path onto the base directory, rejecting paths
// that would leave it.
func (s *LocalStorage) resolve(relativePath string) (string, error) {
	filePath := filepath.Join(s.basePath, relativePath)
	rel, err := filepath.Rel(s.basePath, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideStorage, relativePath)
	}
	return filePath, nil
}
