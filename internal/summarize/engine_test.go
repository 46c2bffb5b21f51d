package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tubescribe/internal/logger"
)

type fakeProvider struct {
	name       string
	configured bool
	reply      string
	err        error
	calls      int
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.calls++
	return p.reply, p.err
}

const longText = "Este produto é muito bom e excelente para todos os usuários finais " +
	"que buscam qualidade superior em cada detalhe do processo completo de " +
	"fabricação industrial moderna."

func TestSummarizeRejectsShortInput(t *testing.T) {
	engine := NewEngine(logger.New("error"))

	tests := []string{"", "   ", "texto curto demais", strings.Repeat("a", 49)}
	for _, text := range tests {
		_, err := engine.Summarize(context.Background(), text, TypeBrief, "pt")
		if !errors.Is(err, ErrInputTooShort) {
			t.Errorf("Summarize(%q) error = %v, want ErrInputTooShort", text, err)
		}
	}
}

func TestSummarizeProductReview(t *testing.T) {
	engine := NewEngine(logger.New("error"))

	result, err := engine.Summarize(context.Background(), longText, TypeBrief, "pt")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Sentiment != SentimentPositive {
		t.Errorf("Sentiment = %q, want %q", result.Sentiment, SentimentPositive)
	}
	if result.WordCount != 26 {
		t.Errorf("WordCount = %d, want 26", result.WordCount)
	}
	if strings.TrimSpace(result.Summary) == "" {
		t.Error("Summary is empty")
	}
	if result.SummaryType != TypeBrief {
		t.Errorf("SummaryType = %q, want %q", result.SummaryType, TypeBrief)
	}
	if len(result.KeyTopics) == 0 || len(result.KeyTopics) > 5 {
		t.Errorf("KeyTopics has %d entries", len(result.KeyTopics))
	}
}

func TestSummarizeFallbackNeverEmpty(t *testing.T) {
	// No providers configured: the rule-based path must always return text.
	engine := NewEngine(logger.New("error"))

	for _, kind := range []string{TypeBrief, TypeDetailed, TypeBulletPoints, TypeKeyTopics, "unknown"} {
		result, err := engine.Summarize(context.Background(), longText, kind, "pt")
		if err != nil {
			t.Fatalf("Summarize(%s) error = %v", kind, err)
		}
		if strings.TrimSpace(result.Summary) == "" {
			t.Errorf("Summarize(%s) returned an empty summary", kind)
		}
	}
}

func TestProviderChainFirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "first", configured: true, reply: "resumo do primeiro"}
	second := &fakeProvider{name: "second", configured: true, reply: "resumo do segundo"}
	engine := NewEngine(logger.New("error"), first, second)

	result, err := engine.Summarize(context.Background(), longText, TypeBrief, "pt")
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary != "resumo do primeiro" {
		t.Errorf("Summary = %q, want the first provider's reply", result.Summary)
	}
	if second.calls != 0 {
		t.Errorf("second provider was called %d times, want 0", second.calls)
	}
}

func TestProviderChainFallsThroughOnFailure(t *testing.T) {
	first := &fakeProvider{name: "first", configured: true, err: errors.New("boom")}
	second := &fakeProvider{name: "second", configured: true, reply: "resumo do segundo"}
	engine := NewEngine(logger.New("error"), first, second)

	result, err := engine.Summarize(context.Background(), longText, TypeBrief, "pt")
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary != "resumo do segundo" {
		t.Errorf("Summary = %q, want the second provider's reply", result.Summary)
	}
	if first.calls != 1 {
		t.Errorf("first provider was called %d times, want 1", first.calls)
	}
}

func TestProviderChainSkipsUnconfigured(t *testing.T) {
	first := &fakeProvider{name: "first", configured: false, reply: "não deveria aparecer"}
	second := &fakeProvider{name: "second", configured: true, reply: "resumo configurado"}
	engine := NewEngine(logger.New("error"), first, second)

	result, err := engine.Summarize(context.Background(), longText, TypeBrief, "pt")
	if err != nil {
		t.Fatal(err)
	}
	if first.calls != 0 {
		t.Errorf("unconfigured provider was called %d times", first.calls)
	}
	if result.Summary != "resumo configurado" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestProviderChainAllFailuresUseRuleBased(t *testing.T) {
	first := &fakeProvider{name: "first", configured: true, err: errors.New("boom")}
	second := &fakeProvider{name: "second", configured: true, err: errors.New("boom")}
	engine := NewEngine(logger.New("error"), first, second)

	result, err := engine.Summarize(context.Background(), longText, TypeBrief, "pt")
	if err != nil {
		t.Fatalf("provider failures must never surface, got %v", err)
	}
	if strings.TrimSpace(result.Summary) == "" {
		t.Error("rule-based fallback returned an empty summary")
	}
}
