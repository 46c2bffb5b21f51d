// Package ffmpeg wraps the ffmpeg transcoder behind an audio-extraction
// contract with a one-time load step.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"tubescribe/internal/logger"
	"tubescribe/internal/media"
	"tubescribe/internal/staging"
	"tubescribe/pkg/executor"
)

var (
	// ErrNotLoaded means ExtractAudio was invoked before a successful Load.
	ErrNotLoaded = errors.New("ffmpeg has not been loaded")
	// ErrTranscodeFailed wraps any failure of the extraction command.
	ErrTranscodeFailed = errors.New("audio extraction failed")
)

// ProgressFunc receives advisory progress fractions in [0,1]. Progress is
// never used for correctness.
type ProgressFunc func(fraction float64)

type Extractor struct {
	bin   string
	exec  executor.Executor
	store *staging.Store
	log   logger.Logger

	loadOnce sync.Once
	loadErr  error
	loaded   atomic.Bool
}

func New(bin string, exec executor.Executor, store *staging.Store, log logger.Logger) *Extractor {
	return &Extractor{bin: bin, exec: exec, store: store, log: log}
}

// Load verifies the transcoder once per process. Concurrent callers share a
// single underlying probe; all of them observe the same outcome.
func (e *Extractor) Load(ctx context.Context, progress ProgressFunc) error {
	e.loadOnce.Do(func() {
		report(progress, 0)
		if _, err := e.exec.LookPath(e.bin); err != nil {
			e.loadErr = fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
			return
		}
		if _, err := e.exec.Execute(ctx, e.bin, "-version"); err != nil {
			e.loadErr = fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
			return
		}
		e.loaded.Store(true)
		report(progress, 1)
		e.log.Info(ctx, "ffmpeg loaded: %s", e.bin)
	})
	return e.loadErr
}

// Loaded reports whether Load has completed successfully.
func (e *Extractor) Loaded() bool { return e.loaded.Load() }

// ExtractAudio strips the video stream and encodes constant-bitrate mono MP3
// at a fixed sample rate. The staged input and output are removed on every
// path.
func (e *Extractor) ExtractAudio(ctx context.Context, video media.Buffer, progress ProgressFunc) (media.Buffer, error) {
	if !e.Loaded() {
		return media.Buffer{}, ErrNotLoaded
	}

	dir, err := e.store.CreateDir("extract")
	if err != nil {
		return media.Buffer{}, err
	}
	defer e.store.Remove(ctx, dir)

	inPath := filepath.Join(dir, "input.mp4")
	outPath := filepath.Join(dir, "audio.mp3")

	if err := os.WriteFile(inPath, video.Data, 0644); err != nil {
		return media.Buffer{}, fmt.Errorf("stage video: %w", err)
	}

	report(progress, 0)
	e.log.Info(ctx, "Extracting audio from %d bytes of video", video.Len())

	args := []string{
		"-y",
		"-i", inPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		outPath,
	}
	if _, err := e.exec.Execute(ctx, e.bin, args...); err != nil {
		return media.Buffer{}, fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return media.Buffer{}, fmt.Errorf("%w: no output produced", ErrTranscodeFailed)
	}
	report(progress, 1)

	e.log.Info(ctx, "Audio extracted: %d bytes", len(data))
	return media.Buffer{Data: data, MIME: "audio/mpeg"}, nil
}

func report(progress ProgressFunc, fraction float64) {
	if progress != nil {
		progress(fraction)
	}
}
