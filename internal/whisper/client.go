// Package whisper wraps the whisper.cpp command-line tool behind an
// in-process transcription contract.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"tubescribe/internal/logger"
	"tubescribe/internal/media"
	"tubescribe/internal/staging"
	"tubescribe/pkg/executor"
)

var (
	// ErrToolUnavailable means the whisper binary could not be launched.
	ErrToolUnavailable = errors.New("whisper is not installed or not on PATH")
	// ErrEmptyTranscript means the tool finished without usable text.
	ErrEmptyTranscript = errors.New("transcription produced no usable text")
)

// minTranscriptLen is the minimal usable transcript length in characters.
const minTranscriptLen = 10

// LanguageAuto asks the tool to detect the spoken language itself.
const LanguageAuto = "auto"

// Models lists the recognized model sizes, smallest to largest.
var Models = []string{"tiny", "base", "small", "medium", "large"}

// ValidModel reports whether name is a recognized model size.
func ValidModel(name string) bool {
	for _, m := range Models {
		if m == name {
			return true
		}
	}
	return false
}

type Client struct {
	bin      string
	modelDir string
	threads  int
	exec     executor.Executor
	store    *staging.Store
	log      logger.Logger
}

func New(bin, modelDir string, threads int, exec executor.Executor, store *staging.Store, log logger.Logger) *Client {
	return &Client{bin: bin, modelDir: modelDir, threads: threads, exec: exec, store: store, log: log}
}

func (c *Client) modelPath(model string) string {
	return filepath.Join(c.modelDir, "ggml-"+model+".bin")
}

// Transcribe stages the audio buffer to a scoped directory, runs the tool
// requesting plain-text output into the same directory, and reads the text
// back. When the expected output file is absent it falls back to scanning
// the tool's stdout. Staged audio and generated text are removed on every
// path.
func (c *Client) Transcribe(ctx context.Context, audio media.Buffer, language, model string) (media.TranscriptionResult, error) {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return media.TranscriptionResult{}, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	dir, err := c.store.CreateDir("transcribe")
	if err != nil {
		return media.TranscriptionResult{}, err
	}
	defer c.store.Remove(ctx, dir)

	audioPath := filepath.Join(dir, "audio"+extFor(audio.MIME))
	if err := os.WriteFile(audioPath, audio.Data, 0644); err != nil {
		return media.TranscriptionResult{}, fmt.Errorf("stage audio: %w", err)
	}

	outPrefix := filepath.Join(dir, "transcript")

	args := []string{
		"-m", c.modelPath(model),
		"-f", audioPath,
		"-otxt",
		"--output-file", outPrefix,
		"-t", strconv.Itoa(c.threads),
	}
	if language != LanguageAuto {
		args = append(args, "-l", language)
	}

	c.log.Info(ctx, "Transcribing %d bytes of audio (model=%s, language=%s)", audio.Len(), model, language)

	res, runErr := c.exec.Execute(ctx, c.bin, args...)

	text := ""
	if data, err := os.ReadFile(outPrefix + ".txt"); err == nil {
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		if runErr != nil {
			return media.TranscriptionResult{}, fmt.Errorf("transcribe: %w", runErr)
		}
		// Recovery path: some builds print the transcript to stdout only.
		text = strings.TrimSpace(res.Stdout)
	}
	if utf8.RuneCountInString(text) < minTranscriptLen {
		return media.TranscriptionResult{}, ErrEmptyTranscript
	}

	label := language
	if language == LanguageAuto {
		label = "auto-detected"
	}

	c.log.Info(ctx, "Transcription complete: %d characters", len(text))

	return media.TranscriptionResult{
		Text:     text,
		Language: label,
		Model:    model,
		Duration: audio.Len(),
	}, nil
}

func extFor(mime string) string {
	switch mime {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".bin"
	}
}
