package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubescribe/internal/config"
	"tubescribe/internal/ffmpeg"
	"tubescribe/internal/logger"
	"tubescribe/internal/pipeline"
	"tubescribe/internal/server"
	"tubescribe/internal/staging"
	"tubescribe/internal/summarize"
	"tubescribe/internal/whisper"
	"tubescribe/internal/ytdlp"
	"tubescribe/pkg/executor"
)

// Staging entries left behind by crashes are swept once they exceed this age.
const (
	sweepInterval = 15 * time.Minute
	sweepMaxAge   = time.Hour
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "YouTube analyzer starting")
	log.Info(ctx, "Summary providers: openai=%v gemini=%v", cfg.OpenAIKey != "", cfg.GeminiKey != "")

	store, err := staging.New(cfg.Paths.Temp, log)
	if err != nil {
		log.Error(ctx, "Failed to prepare staging dir: %v", err)
		os.Exit(1)
	}
	go store.Janitor(ctx, sweepInterval, sweepMaxAge)

	exec := executor.New()
	svc := pipeline.Services{
		Video:  ytdlp.New(cfg.Tools.YTDLP, exec, store, log),
		Audio:  ffmpeg.New(cfg.Tools.FFmpeg, exec, store, log),
		Speech: whisper.New(cfg.Tools.Whisper, cfg.Whisper.ModelDir, cfg.Whisper.Threads, exec, store, log),
		Summary: summarize.NewEngine(log,
			summarize.NewOpenAIProvider(cfg.OpenAIKey, cfg.Summary.OpenAIModel),
			summarize.NewGeminiProvider(cfg.GeminiKey, cfg.Summary.GeminiModel),
		),
	}
	defaults := pipeline.Defaults{
		Language:    cfg.Whisper.DefaultLanguage,
		Model:       cfg.Whisper.DefaultModel,
		SummaryType: cfg.Summary.DefaultType,
		SummaryLang: cfg.Summary.Language,
	}

	runs := pipeline.NewManager(ctx, svc, defaults, log)
	srv := server.New(svc, runs, store, defaults, log)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info(ctx, "Listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "Shutdown incomplete: %v", err)
	}

	cancel()
	log.Info(ctx, "YouTube analyzer stopped")
}

func configPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "config.yaml"
}
