package pipeline

import (
	"sync"

	"tubescribe/internal/media"
)

// Stage is one step of the fixed five-step pipeline.
type Stage string

const (
	StageDownload   Stage = "download"
	StageProcess    Stage = "process"
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
	StageComplete   Stage = "complete"
)

// next returns the stage that follows s. Complete is terminal.
func (s Stage) next() Stage {
	switch s {
	case StageDownload:
		return StageProcess
	case StageProcess:
		return StageTranscribe
	case StageTranscribe:
		return StageSummarize
	case StageSummarize:
		return StageComplete
	default:
		return StageComplete
	}
}

// Run is one pipeline execution for one submitted URL. Stages only advance
// forward; a failure keeps the current stage and records the error without
// discarding results already computed. A reset bumps the generation counter
// so in-flight work commits against a stale generation and is ignored.
type Run struct {
	mu sync.Mutex

	id    string
	gen   int
	url   string
	stage Stage

	meta       *media.VideoMetadata
	video      *media.Buffer
	audio      *media.Buffer
	transcript *media.TranscriptionResult
	summary    *media.SummaryResult

	lastErr string
	busy    bool
}

func (r *Run) ID() string { return r.id }

// Status is an immutable snapshot of a run for presentation.
type Status struct {
	ID            string                     `json:"id"`
	Stage         Stage                      `json:"stage"`
	URL           string                     `json:"url"`
	Busy          bool                       `json:"busy"`
	Error         string                     `json:"error,omitempty"`
	Metadata      *media.VideoMetadata       `json:"metadata,omitempty"`
	Transcription *media.TranscriptionResult `json:"transcription,omitempty"`
	Summary       *media.SummaryResult       `json:"summary,omitempty"`
}

func (r *Run) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		ID:            r.id,
		Stage:         r.stage,
		URL:           r.url,
		Busy:          r.busy,
		Error:         r.lastErr,
		Metadata:      r.meta,
		Transcription: r.transcript,
		Summary:       r.summary,
	}
}

// generation returns the counter guarding against stale commits.
func (r *Run) generation() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// current reports the generation the stage loop should work against, or
// false when another stage loop already owns the run.
func (r *Run) begin() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy || r.stage == StageComplete {
		return 0, false
	}
	r.busy = true
	r.lastErr = ""
	return r.gen, true
}

func (r *Run) finish(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.busy = false
}

// advance moves to the next stage if the run is still on generation gen.
func (r *Run) advance(gen int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return false
	}
	r.stage = r.stage.next()
	return true
}

// fail records the error and keeps the current stage.
func (r *Run) fail(gen int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.lastErr = err.Error()
	r.busy = false
}

// reset clears all accumulated data and returns to the initial stage.
// Work still in flight keeps running but its result is discarded.
func (r *Run) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.stage = StageDownload
	r.meta = nil
	r.video = nil
	r.audio = nil
	r.transcript = nil
	r.summary = nil
	r.lastErr = ""
	r.busy = false
}
