package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"tubescribe/internal/logger"
	"tubescribe/internal/media"
)

// ErrRunNotFound is returned for unknown run IDs.
var ErrRunNotFound = errors.New("pipeline run not found")

// Manager owns the active pipeline runs and drives each one through the
// download → process → transcribe → summarize → complete sequence. Stages
// after download chain automatically; a later stage never starts before the
// earlier stage's result is fully committed.
type Manager struct {
	mu   sync.Mutex
	runs map[string]*Run

	svc      Services
	defaults Defaults
	log      logger.Logger

	// base context for stage work, which outlives the HTTP request that
	// triggered it; a reset discards interest rather than cancelling.
	ctx context.Context
}

func NewManager(ctx context.Context, svc Services, defaults Defaults, log logger.Logger) *Manager {
	return &Manager{
		runs:     make(map[string]*Run),
		svc:      svc,
		defaults: defaults,
		log:      log,
		ctx:      ctx,
	}
}

// Start validates the URL, creates a run in the download stage, and begins
// executing it in the background.
func (m *Manager) Start(url string) (*Run, error) {
	if err := media.ValidateURL(url); err != nil {
		return nil, err
	}

	run := &Run{id: newRunID(), url: url, stage: StageDownload}

	m.mu.Lock()
	m.runs[run.id] = run
	m.mu.Unlock()

	m.log.Info(m.ctx, "Pipeline run %s started: %s", run.id, url)
	m.launch(run)
	return run, nil
}

// Get returns the run with the given ID.
func (m *Manager) Get(id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Retry re-executes the run from its current stage. It is the only retry
// mechanism; no stage retries automatically.
func (m *Manager) Retry(id string) (*Run, error) {
	run, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	m.launch(run)
	return run, nil
}

// Reset returns the run to the download stage, clears its data, and
// discards the result of any work still in flight.
func (m *Manager) Reset(id string) (*Run, error) {
	run, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	run.reset()
	m.log.Info(m.ctx, "Pipeline run %s reset", id)
	return run, nil
}

func (m *Manager) launch(run *Run) {
	gen, ok := run.begin()
	if !ok {
		return
	}
	go m.runStages(run, gen)
}

// runStages drives the run forward until it completes or a stage fails.
// Every commit is guarded by the generation captured at launch so a reset
// invalidates the work without interrupting it.
func (m *Manager) runStages(run *Run, gen int) {
	defer run.finish(gen)

	for {
		run.mu.Lock()
		stage := run.stage
		run.mu.Unlock()

		if stage == StageComplete {
			m.log.Info(m.ctx, "Pipeline run %s complete", run.id)
			return
		}

		if err := m.executeStage(run, gen, stage); err != nil {
			run.fail(gen, err)
			m.log.Error(m.ctx, "Pipeline run %s failed in stage %s: %v", run.id, stage, err)
			return
		}
		if !run.advance(gen) {
			return // reset happened mid-stage; result discarded
		}
	}
}

func (m *Manager) executeStage(run *Run, gen int, stage Stage) error {
	switch stage {
	case StageDownload:
		return m.download(run, gen)
	case StageProcess:
		return m.extractAudio(run, gen)
	case StageTranscribe:
		return m.transcribe(run, gen)
	case StageSummarize:
		return m.summarize(run, gen)
	default:
		return fmt.Errorf("no work defined for stage %s", stage)
	}
}

func (m *Manager) download(run *Run, gen int) error {
	meta, err := m.svc.Video.FetchMetadata(m.ctx, run.url)
	if err != nil {
		return err
	}
	video, err := m.svc.Video.FetchVideo(m.ctx, run.url)
	if err != nil {
		return err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if run.gen != gen {
		return nil
	}
	run.meta = &meta
	run.video = &video
	return nil
}

func (m *Manager) extractAudio(run *Run, gen int) error {
	run.mu.Lock()
	video := run.video
	run.mu.Unlock()
	if video == nil {
		return fmt.Errorf("no video buffer available for extraction")
	}

	if err := m.svc.Audio.Load(m.ctx, nil); err != nil {
		return err
	}
	audio, err := m.svc.Audio.ExtractAudio(m.ctx, *video, nil)
	if err != nil {
		return err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if run.gen != gen {
		return nil
	}
	run.audio = &audio
	run.video = nil // the video buffer is consumed by this stage
	return nil
}

func (m *Manager) transcribe(run *Run, gen int) error {
	run.mu.Lock()
	audio := run.audio
	run.mu.Unlock()
	if audio == nil {
		return fmt.Errorf("no audio buffer available for transcription")
	}

	result, err := m.svc.Speech.Transcribe(m.ctx, *audio, m.defaults.Language, m.defaults.Model)
	if err != nil {
		return err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if run.gen != gen {
		return nil
	}
	run.transcript = &result
	run.audio = nil // the audio buffer is consumed by this stage
	return nil
}

func (m *Manager) summarize(run *Run, gen int) error {
	run.mu.Lock()
	transcript := run.transcript
	run.mu.Unlock()
	if transcript == nil {
		return fmt.Errorf("no transcript available for summarization")
	}

	result, err := m.svc.Summary.Summarize(m.ctx, transcript.Text, m.defaults.SummaryType, m.defaults.SummaryLang)
	if err != nil {
		return err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if run.gen != gen {
		return nil
	}
	run.summary = &result
	return nil
}

func newRunID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "run-unknown"
	}
	return hex.EncodeToString(buf)
}
