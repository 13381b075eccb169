package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// LocalStorage keeps the post archive on the local filesystem. It is the
// default backend when no Azure storage account is configured.
type LocalStorage struct {
	baseDir string
}

// Ensure LocalStorage implements StorageInterface
var _ StorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates a filesystem-backed store rooted at baseDir
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", baseDir, err)
	}

	return &LocalStorage{baseDir: baseDir}, nil
}

// path resolves a stored filename, rejecting anything that would escape the
// base directory.
func (s *LocalStorage) path(filename string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(filename))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Store writes a file under the base directory
func (s *LocalStorage) Store(filename string, data []byte) error {
	target, err := s.path(filename)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", filename, err)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	logrus.Debugf("Stored %s under %s", filename, s.baseDir)
	return nil
}

// Retrieve reads a file from the base directory
func (s *LocalStorage) Retrieve(filename string) ([]byte, error) {
	target, err := s.path(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return data, nil
}

// List returns the stored filenames under a prefix, in lexical order. Names
// use forward slashes regardless of platform, like blob names.
func (s *LocalStorage) List(prefix string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.baseDir, err)
	}

	sort.Strings(names)
	return names, nil
}

// Delete removes a file from the base directory
func (s *LocalStorage) Delete(filename string) error {
	target, err := s.path(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}

	logrus.Debugf("Deleted %s from %s", filename, s.baseDir)
	return nil
}
