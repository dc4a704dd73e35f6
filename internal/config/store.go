package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultFileName is the well-known document name inside the base directory.
const DefaultFileName = "config.json"

// Store owns the on-disk configuration document. It holds no parsed state;
// every Load re-reads the file.
type Store struct {
	path   string
	format Format
	logger *zap.Logger
}

// NewStore creates a store for the document at path.
// A nil logger is replaced with a no-op logger.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		format: FormatForPath(path),
		logger: logger.Named("config"),
	}
}

// Path returns the absolute or relative path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and parses the document.
//
// Returns an error wrapping ErrConfigurationMissing if the file does not
// exist, or ErrConfigurationMalformed if it cannot be parsed.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigurationMissing, s.path)
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", s.path, err)
	}

	doc, err := Parse(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigurationMalformed, s.path, err)
	}

	s.logger.Debug("configuration loaded", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return doc, nil
}

// Save serializes the document and replaces the backing file.
//
// The new content is written to a temporary file in the same directory,
// synced, and renamed over the target, so readers see either the old or the
// new document in full.
func (s *Store) Save(doc *Document) error {
	data, err := doc.MarshalAs(s.format)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := writeFileAtomic(s.path, data, mode); err != nil {
		return fmt.Errorf("failed to save configuration %s: %w", s.path, err)
	}

	s.logger.Info("configuration saved", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure before the rename
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	committed = true
	return nil
}
