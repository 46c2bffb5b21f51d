// Package staging manages the scoped temporary directory shared by the
// external-tool adapters. Every operation creates uniquely named entries and
// is responsible for removing them on all exit paths; the janitor sweep is a
// safety net for entries orphaned by a crash.
package staging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tubescribe/internal/logger"
)

type Store struct {
	root string
	log  logger.Logger
}

// New creates the staging root if needed and returns a Store over it.
func New(root string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", root, err)
	}
	return &Store{root: root, log: log}, nil
}

func (s *Store) Root() string { return s.root }

// CreateDir makes a uniquely named subdirectory for one operation.
func (s *Store) CreateDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp(s.root, prefix+"-*")
	if err != nil {
		return "", fmt.Errorf("create staging subdir: %w", err)
	}
	return dir, nil
}

// CreateFile makes a uniquely named file. The pattern follows os.CreateTemp,
// e.g. "audio-*.wav".
func (s *Store) CreateFile(pattern string) (string, error) {
	f, err := os.CreateTemp(s.root, pattern)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staging file: %w", err)
	}
	return name, nil
}

// Remove deletes a staging entry (file or directory), logging on failure
// instead of propagating since callers invoke it from deferred cleanup.
func (s *Store) Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		s.log.Warn(ctx, "Failed to cleanup staging entry %s: %v", path, err)
	} else {
		s.log.Debug(ctx, "Cleaned up staging entry: %s", path)
	}
}

// Sweep removes top-level staging entries older than maxAge and returns how
// many were removed.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read staging dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			s.log.Warn(ctx, "Sweep could not remove %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info(ctx, "Staging sweep removed %d stale entries", removed)
	}
	return removed, nil
}

// Janitor runs Sweep on a fixed interval until ctx is cancelled. It is
// independent of the request path.
func (s *Store) Janitor(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, maxAge); err != nil {
				s.log.Warn(ctx, "Staging sweep failed: %v", err)
			}
		}
	}
}
