package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OffsetStore persists the next update id to request.
type OffsetStore interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, offset int) error
}

// NewOffsetStore opens the store selected by setting.OffsetDriver.
func NewOffsetStore(setting Setting) (OffsetStore, error) {
	switch setting.OffsetDriver {
	case DriverFile:
		return NewFileStore(setting.OffsetFile), nil
	case DriverMySQL, DriverSQLite:
		return NewSQLStore(setting.OffsetDriver, setting.OffsetDSN)
	default:
		return nil, &ConfigError{Key: "offset_driver", Reason: fmt.Sprintf("unknown driver %q", setting.OffsetDriver)}
	}
}

// FileStore keeps the offset as a decimal integer in a text file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the offset. A missing file means nothing was processed yet
// and yields 0.
func (s *FileStore) Load(ctx context.Context) (int, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read offset file: %w", err)
	}

	offset, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse offset file %s: %w", s.path, err)
	}

	return offset, nil
}

// Save replaces the file content through a temporary file and a rename.
func (s *FileStore) Save(ctx context.Context, offset int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create offset directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(strconv.Itoa(offset)), 0644); err != nil {
		return fmt.Errorf("write offset file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename offset file: %w", err)
	}

	return nil
}
