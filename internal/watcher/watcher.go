// Package watcher monitors a local drop folder and feeds new video files
// through the analysis pipeline.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tubescribe/internal/logger"
)

// Handler processes one dropped video file.
type Handler func(ctx context.Context, path string) error

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true, ".flv": true,
}

type Watcher struct {
	inputDir string
	handler  Handler
	log      logger.Logger
	fs       *fsnotify.Watcher

	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over inputDir with at most maxConcurrent files
// processed at once.
func New(inputDir string, handler Handler, log logger.Logger, maxConcurrent int) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(inputDir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		log:       log,
		fs:        fs,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks, dispatching newly created video files to the handler, until
// ctx is cancelled. Ongoing work is drained before returning.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info(ctx, "Watching %s for video files", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.log.Info(ctx, "Waiting for ongoing processing to finish...")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create || !isVideoFile(event.Name) {
				continue
			}
			w.log.Info(ctx, "New video detected: %s", event.Name)

			// Give the producer a moment to finish writing the file
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()
					if err := w.handler(ctx, path); err != nil {
						w.log.Error(ctx, "Failed to process %s: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying file-system watcher.
func (w *Watcher) Stop() error {
	return w.fs.Close()
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
