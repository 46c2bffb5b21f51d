// Drop-folder mode: videos copied into the input directory are analyzed
// locally and their transcript and summary are written to the output
// directory as a docx document.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tubescribe/internal/config"
	"tubescribe/internal/docwriter"
	"tubescribe/internal/ffmpeg"
	"tubescribe/internal/logger"
	"tubescribe/internal/media"
	"tubescribe/internal/staging"
	"tubescribe/internal/summarize"
	"tubescribe/internal/watcher"
	"tubescribe/internal/whisper"
	"tubescribe/pkg/executor"
)

type analyzer struct {
	audio   *ffmpeg.Extractor
	speech  *whisper.Client
	summary *summarize.Engine
	store   *staging.Store
	cfg     *config.Config
	log     logger.Logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Paths.WatchInput == "" || cfg.Paths.WatchOutput == "" {
		fmt.Fprintln(os.Stderr, "paths.watch_input and paths.watch_output are required in watch mode")
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)

	for _, dir := range []string{cfg.Paths.WatchInput, cfg.Paths.WatchOutput} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error(ctx, "Failed to create directory %s: %v", dir, err)
			os.Exit(1)
		}
	}

	store, err := staging.New(cfg.Paths.Temp, log)
	if err != nil {
		log.Error(ctx, "Failed to prepare staging dir: %v", err)
		os.Exit(1)
	}

	exec := executor.New()
	a := &analyzer{
		audio:  ffmpeg.New(cfg.Tools.FFmpeg, exec, store, log),
		speech: whisper.New(cfg.Tools.Whisper, cfg.Whisper.ModelDir, cfg.Whisper.Threads, exec, store, log),
		summary: summarize.NewEngine(log,
			summarize.NewOpenAIProvider(cfg.OpenAIKey, cfg.Summary.OpenAIModel),
			summarize.NewGeminiProvider(cfg.GeminiKey, cfg.Summary.GeminiModel),
		),
		store: store,
		cfg:   cfg,
		log:   log,
	}

	w, err := watcher.New(cfg.Paths.WatchInput, a.process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watch mode ready: %s -> %s", cfg.Paths.WatchInput, cfg.Paths.WatchOutput)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	cancel()
	log.Info(ctx, "Watch mode stopped")
}

// process runs one local video through extract -> transcribe -> summarize
// and writes the resulting document to the output directory.
func (a *analyzer) process(ctx context.Context, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	a.log.Info(ctx, "Analyzing %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}
	video := media.Buffer{Data: data, MIME: "video/mp4"}

	if err := a.audio.Load(ctx, nil); err != nil {
		return err
	}
	audio, err := a.audio.ExtractAudio(ctx, video, nil)
	if err != nil {
		return err
	}

	transcript, err := a.speech.Transcribe(ctx, audio, a.cfg.Whisper.DefaultLanguage, a.cfg.Whisper.DefaultModel)
	if err != nil {
		return err
	}

	result, err := a.summary.Summarize(ctx, transcript.Text, a.cfg.Summary.DefaultType, a.cfg.Summary.Language)
	if err != nil {
		return err
	}

	doc, err := docwriter.Build(ctx, a.store, name, result.Summary, transcript.Text)
	if err != nil {
		return err
	}

	outPath := filepath.Join(a.cfg.Paths.WatchOutput, name+".docx")
	if err := os.WriteFile(outPath, doc, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	a.log.Info(ctx, "Analysis complete: %s", outPath)
	return nil
}

func configPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "config.yaml"
}
