package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes rendered exports under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes data to filename relative to the base dir and returns the cleaned relative name.
// Names that would escape the base dir are rejected.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	rel, err := s.clean(filename)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare export directory: %w", err)
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalise export file: %w", err)
	}
	return rel, nil
}

// Path returns the on-disk location of a relative export name.
func (s *LocalStorage) Path(filename string) string {
	return filepath.Join(s.baseDir, filepath.Clean(filename))
}

func (s *LocalStorage) clean(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("export filename is empty")
	}
	if filepath.IsAbs(filename) {
		return "", fmt.Errorf("export filename %q must be relative", filename)
	}
	rel := filepath.Clean(filename)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export filename %q escapes the export directory", filename)
	}
	return rel, nil
}
