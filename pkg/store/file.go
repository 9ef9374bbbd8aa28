package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// FileStore stores each listing as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "store directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) listingPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, id string) (*gallery.Listing, error) {
	if err := errors.ValidateListingID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.listingPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, notFound(id)
	}
	return gallery.ReadListingFile(path)
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, l *gallery.Listing) error {
	if err := validateForPut(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	tmp := s.listingPath(l.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write listing file: %w", err)
	}
	if err := os.Rename(tmp, s.listingPath(l.ID)); err != nil {
		return fmt.Errorf("write listing file: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := errors.ValidateListingID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.listingPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove listing file: %w", err)
	}
	return nil
}

// List implements Store. Files that do not decode are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		l, err := gallery.ReadListingFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, Summary{
			ID:        strings.TrimSuffix(entry.Name(), ".json"),
			Results:   len(l.Results),
			UpdatedAt: info.ModTime(),
		})
	}
	sortSummaries(out)
	return out, nil
}

// Close does nothing.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
