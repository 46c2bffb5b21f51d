package pipeline

import (
	"context"

	"tubescribe/internal/ffmpeg"
	"tubescribe/internal/media"
)

// The pipeline depends on narrow adapter contracts so the external tools
// can be swapped for fakes in tests.

type VideoFetcher interface {
	FetchMetadata(ctx context.Context, url string) (media.VideoMetadata, error)
	FetchVideo(ctx context.Context, url string) (media.Buffer, error)
}

type AudioExtractor interface {
	Load(ctx context.Context, progress ffmpeg.ProgressFunc) error
	ExtractAudio(ctx context.Context, video media.Buffer, progress ffmpeg.ProgressFunc) (media.Buffer, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio media.Buffer, language, model string) (media.TranscriptionResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text, summaryType, language string) (media.SummaryResult, error)
}

// Services bundles the adapters a Manager orchestrates.
type Services struct {
	Video   VideoFetcher
	Audio   AudioExtractor
	Speech  Transcriber
	Summary Summarizer
}

// Defaults are the options applied by the automatic stage chaining.
type Defaults struct {
	Language    string // transcription language hint
	Model       string // transcription model size
	SummaryType string
	SummaryLang string
}
