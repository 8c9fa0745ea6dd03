// Package labelcache persists resolved activity categories between runs so
// repeated scoring amortizes oracle cost.
package labelcache

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/maypok86/otter/v2"

	"github.com/dayscore-dev/dayscore/pkg/category"
	"github.com/dayscore-dev/dayscore/pkg/resolver"
)

const fileName = "labels.gob"

// Store is a concurrent-safe label-to-category cache backed by otter, with
// gob persistence. It implements resolver.Cache. Entries are only ever
// added; resolved categories for a label are expected to be stable within
// a session, so last-writer-wins is acceptable.
type Store struct {
	cache  *otter.Cache[string, string]
	logger *slog.Logger
	dir    string
	mu     sync.Mutex // serializes disk writes
}

// Open loads the cache stored under dir, creating the directory if needed.
// Invalid entries (values outside the category set) are dropped silently on
// load; a corrupt file never fails the open, it just starts empty.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	cache := otter.Must(&otter.Options[string, string]{
		MaximumSize:     100_000,
		InitialCapacity: 1_000,
	})
	s := &Store{
		cache:  cache,
		dir:    dir,
		logger: logger,
	}
	if err := s.loadFromDisk(); err != nil {
		logger.Warn("failed to load label cache from disk, starting empty", "error", err)
	}
	logger.Debug("label cache opened", "dir", dir, "entries", s.cache.EstimatedSize())
	return s, nil
}

// Lookup returns the cached category for a normalized label.
func (s *Store) Lookup(label string) (category.Category, bool) {
	value, ok := s.cache.GetIfPresent(resolver.Normalize(label))
	if !ok {
		return "", false
	}
	c, valid := category.Parse(value)
	if !valid {
		return "", false
	}
	return c, true
}

// Store records a resolved label. Entries are never deleted.
func (s *Store) Store(label string, c category.Category) {
	s.cache.Set(resolver.Normalize(label), string(c))
}

// Len reports the number of cached labels.
func (s *Store) Len() int {
	return s.cache.EstimatedSize()
}

func (s *Store) loadFromDisk() error {
	path := filepath.Join(s.dir, fileName)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]string
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	dropped := 0
	for label, value := range entries {
		c, valid := category.Parse(value)
		if !valid {
			dropped++
			continue
		}
		s.cache.Set(resolver.Normalize(label), string(c))
	}
	if dropped > 0 {
		s.logger.Debug("dropped invalid cache entries on load", "dropped", dropped)
	}
	return nil
}

func (s *Store) saveToDisk() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, fileName)
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.logger.Debug("failed to remove temp file", "error", removeErr)
		}
	}()

	entries := make(map[string]string, s.cache.EstimatedSize())
	s.cache.All()(func(label, value string) bool {
		entries[label] = value
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing cache file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	// Atomic replace so a crash never leaves a half-written cache.
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	s.logger.Debug("label cache saved", "entries", len(entries), "path", path)
	return nil
}

// Close flushes the cache to disk.
func (s *Store) Close() error {
	return s.saveToDisk()
}
