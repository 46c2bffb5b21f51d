// Package summarize produces summaries of transcribed text, delegating to
// hosted completion APIs in a fixed priority order and falling back to a
// deterministic rule-based summarizer that always succeeds.
package summarize

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"tubescribe/internal/logger"
	"tubescribe/internal/media"
)

// ErrInputTooShort rejects inputs under the minimal summarizable length.
var ErrInputTooShort = errors.New("transcription is too short to summarize")

// minInputLen is measured in characters after trimming.
const minInputLen = 50

// Provider is one completion-API attempt in the fallback chain.
type Provider interface {
	Name() string
	// Configured reports whether a credential is present for this provider.
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

type Engine struct {
	providers []Provider
	log       logger.Logger
}

// NewEngine builds an Engine that tries providers in the given order before
// falling back to the rule-based summarizer.
func NewEngine(log logger.Logger, providers ...Provider) *Engine {
	return &Engine{providers: providers, log: log}
}

// Summarize computes word count, key topics, and sentiment, then generates
// the summary text. Completion-API failures are absorbed silently by the
// fallback chain; only the too-short precondition can fail.
func (e *Engine) Summarize(ctx context.Context, text, summaryType, language string) (media.SummaryResult, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minInputLen {
		return media.SummaryResult{}, ErrInputTooShort
	}

	topics := KeyTopics(trimmed, language)

	result := media.SummaryResult{
		WordCount:   WordCount(trimmed),
		KeyTopics:   topics,
		Sentiment:   Sentiment(trimmed),
		SummaryType: summaryType,
	}
	result.Summary = e.generate(ctx, trimmed, summaryType, language, topics)

	return result, nil
}

func (e *Engine) generate(ctx context.Context, text, summaryType, language string, topics []string) string {
	prompt := buildPrompt(text, summaryType, language)

	for _, p := range e.providers {
		if !p.Configured() {
			continue
		}
		summary, err := p.Complete(ctx, prompt)
		if err != nil {
			// Never surfaced to the caller; the chain falls through.
			e.log.Warn(ctx, "Summary provider %s failed, falling back: %v", p.Name(), err)
			continue
		}
		if summary = strings.TrimSpace(summary); summary != "" {
			e.log.Info(ctx, "Summary generated by %s", p.Name())
			return summary
		}
		e.log.Warn(ctx, "Summary provider %s returned empty text, falling back", p.Name())
	}

	e.log.Info(ctx, "Summary generated by rule-based fallback")
	return RuleBased(text, summaryType, topics)
}
