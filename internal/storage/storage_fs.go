package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FSStorage reads repository files below Root and writes run artifacts.
type FSStorage struct {
	Root string
}

func NewFSStorage(root string) *FSStorage {
	return &FSStorage{Root: root}
}

// ReadFile reads a slash-separated path relative to Root. Paths that would
// escape Root are rejected.
func (s *FSStorage) ReadFile(name string) ([]byte, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("path %q is outside the workspace", name)
	}
	return os.ReadFile(filepath.Join(s.Root, rel))
}

// WriteJSON writes v as indented JSON. Relative destinations are resolved
// against Root.
func (s *FSStorage) WriteJSON(ctx context.Context, destPath string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')

	fullPath := destPath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(s.Root, filepath.FromSlash(destPath))
	}
	return s.writeFileAbsolute(fullPath, data)
}

func (s *FSStorage) writeFileAbsolute(fullPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// Remove any existing file or symlink so os.WriteFile does not
	// follow a stale symlink.
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
