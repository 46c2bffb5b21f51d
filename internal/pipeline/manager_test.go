package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tubescribe/internal/ffmpeg"
	"tubescribe/internal/logger"
	"tubescribe/internal/media"
)

type fakeVideo struct {
	metaErr  error
	fetchErr error
}

func (f *fakeVideo) FetchMetadata(ctx context.Context, url string) (media.VideoMetadata, error) {
	if f.metaErr != nil {
		return media.VideoMetadata{}, f.metaErr
	}
	return media.VideoMetadata{Title: "Vídeo de teste", Duration: "2:05"}, nil
}

func (f *fakeVideo) FetchVideo(ctx context.Context, url string) (media.Buffer, error) {
	if f.fetchErr != nil {
		return media.Buffer{}, f.fetchErr
	}
	return media.Buffer{Data: []byte("video"), MIME: "video/mp4"}, nil
}

type fakeAudio struct {
	extractErr error
}

func (f *fakeAudio) Load(ctx context.Context, progress ffmpeg.ProgressFunc) error { return nil }

func (f *fakeAudio) ExtractAudio(ctx context.Context, video media.Buffer, progress ffmpeg.ProgressFunc) (media.Buffer, error) {
	if f.extractErr != nil {
		return media.Buffer{}, f.extractErr
	}
	return media.Buffer{Data: []byte("audio"), MIME: "audio/mpeg"}, nil
}

type fakeSpeech struct {
	mu       sync.Mutex
	err      error
	language string
	model    string
}

func (f *fakeSpeech) Transcribe(ctx context.Context, audio media.Buffer, language, model string) (media.TranscriptionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.language, f.model = language, model
	if f.err != nil {
		return media.TranscriptionResult{}, f.err
	}
	return media.TranscriptionResult{Text: "transcrição de teste", Language: language, Model: model}, nil
}

type fakeSummary struct {
	mu          sync.Mutex
	err         error
	summaryType string
	language    string
}

func (f *fakeSummary) Summarize(ctx context.Context, text, summaryType, language string) (media.SummaryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryType, f.language = summaryType, language
	if f.err != nil {
		return media.SummaryResult{}, f.err
	}
	return media.SummaryResult{Summary: "resumo de teste", SummaryType: summaryType}, nil
}

var testDefaults = Defaults{Language: "auto", Model: "base", SummaryType: "brief", SummaryLang: "pt"}

func newTestManager(svc Services) *Manager {
	return NewManager(context.Background(), svc, testDefaults, logger.New("error"))
}

func fullServices() (Services, *fakeSpeech, *fakeSummary) {
	speech := &fakeSpeech{}
	summary := &fakeSummary{}
	return Services{
		Video:   &fakeVideo{},
		Audio:   &fakeAudio{},
		Speech:  speech,
		Summary: summary,
	}, speech, summary
}

// waitFor polls the run until cond holds or the deadline passes.
func waitFor(t *testing.T, run *Run, cond func(Status) bool) Status {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st := run.Snapshot()
		if cond(st) {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached; last status: %+v", run.Snapshot())
	return Status{}
}

func TestStartInvalidURL(t *testing.T) {
	svc, _, _ := fullServices()
	m := newTestManager(svc)

	_, err := m.Start("https://example.com/not-youtube")
	if !errors.Is(err, media.ErrInvalidURL) {
		t.Errorf("error = %v, want ErrInvalidURL", err)
	}
}

func TestRunCompletesThroughAllStages(t *testing.T) {
	svc, speech, summary := fullServices()
	m := newTestManager(svc)

	run, err := m.Start("https://youtu.be/abc123")
	if err != nil {
		t.Fatal(err)
	}

	st := waitFor(t, run, func(s Status) bool { return s.Stage == StageComplete })

	if st.Error != "" {
		t.Errorf("Error = %q, want empty", st.Error)
	}
	if st.Metadata == nil || st.Metadata.Title != "Vídeo de teste" {
		t.Errorf("Metadata = %+v", st.Metadata)
	}
	if st.Transcription == nil || st.Transcription.Text != "transcrição de teste" {
		t.Errorf("Transcription = %+v", st.Transcription)
	}
	if st.Summary == nil || st.Summary.Summary != "resumo de teste" {
		t.Errorf("Summary = %+v", st.Summary)
	}

	// Automatic chaining applies the configured defaults.
	speech.mu.Lock()
	if speech.language != "auto" || speech.model != "base" {
		t.Errorf("transcription options = %s/%s, want auto/base", speech.language, speech.model)
	}
	speech.mu.Unlock()
	summary.mu.Lock()
	if summary.summaryType != "brief" || summary.language != "pt" {
		t.Errorf("summary options = %s/%s, want brief/pt", summary.summaryType, summary.language)
	}
	summary.mu.Unlock()
}

func TestFailureKeepsStageAndPriorResults(t *testing.T) {
	svc, speech, _ := fullServices()
	speech.err = errors.New("whisper exploded")
	m := newTestManager(svc)

	run, err := m.Start("https://youtu.be/abc123")
	if err != nil {
		t.Fatal(err)
	}

	st := waitFor(t, run, func(s Status) bool { return s.Error != "" })

	if st.Stage != StageTranscribe {
		t.Errorf("Stage = %s, want transcribe", st.Stage)
	}
	// Prior-stage results survive the failure.
	if st.Metadata == nil {
		t.Error("metadata was discarded on failure")
	}
	if st.Summary != nil {
		t.Error("summary must not exist after a transcription failure")
	}
}

func TestRetryResumesFromFailedStage(t *testing.T) {
	svc, speech, _ := fullServices()
	speech.err = errors.New("whisper exploded")
	m := newTestManager(svc)

	run, err := m.Start("https://youtu.be/abc123")
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, run, func(s Status) bool { return s.Error != "" })

	speech.mu.Lock()
	speech.err = nil
	speech.mu.Unlock()

	if _, err := m.Retry(run.ID()); err != nil {
		t.Fatal(err)
	}
	st := waitFor(t, run, func(s Status) bool { return s.Stage == StageComplete })
	if st.Error != "" {
		t.Errorf("Error = %q after successful retry", st.Error)
	}
}

func TestResetClearsRun(t *testing.T) {
	svc, _, _ := fullServices()
	m := newTestManager(svc)

	run, err := m.Start("https://youtu.be/abc123")
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, run, func(s Status) bool { return s.Stage == StageComplete })

	if _, err := m.Reset(run.ID()); err != nil {
		t.Fatal(err)
	}

	st := run.Snapshot()
	if st.Stage != StageDownload {
		t.Errorf("Stage = %s, want download", st.Stage)
	}
	if st.Metadata != nil || st.Transcription != nil || st.Summary != nil {
		t.Error("reset did not clear accumulated data")
	}
}

func TestGetUnknownRun(t *testing.T) {
	svc, _, _ := fullServices()
	m := newTestManager(svc)

	if _, err := m.Get("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}

func TestStageOrderIsForwardOnly(t *testing.T) {
	order := []Stage{StageDownload, StageProcess, StageTranscribe, StageSummarize, StageComplete}
	for i := 0; i < len(order)-1; i++ {
		if order[i].next() != order[i+1] {
			t.Errorf("%s.next() = %s, want %s", order[i], order[i].next(), order[i+1])
		}
	}
	if StageComplete.next() != StageComplete {
		t.Error("complete must be terminal")
	}
}
