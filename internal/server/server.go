// Package server exposes the analysis pipeline over HTTP: stateless
// per-stage endpoints plus managed pipeline runs.
package server

import (
	"net/http"

	"tubescribe/internal/logger"
	"tubescribe/internal/pipeline"
	"tubescribe/internal/staging"
)

type Server struct {
	svc      pipeline.Services
	runs     *pipeline.Manager
	store    *staging.Store
	log      logger.Logger
	defaults pipeline.Defaults

	mux *http.ServeMux
}

func New(svc pipeline.Services, runs *pipeline.Manager, store *staging.Store, defaults pipeline.Defaults, log logger.Logger) *Server {
	s := &Server{
		svc:      svc,
		runs:     runs,
		store:    store,
		log:      log,
		defaults: defaults,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /video-info", s.handleVideoInfo)
	s.mux.HandleFunc("POST /download-video", s.handleDownloadVideo)
	s.mux.HandleFunc("POST /extract-audio", s.handleExtractAudio)
	s.mux.HandleFunc("POST /transcribe", s.handleTranscribe)
	s.mux.HandleFunc("POST /summarize", s.handleSummarize)
	s.mux.HandleFunc("POST /export", s.handleExport)

	s.mux.HandleFunc("POST /runs", s.handleCreateRun)
	s.mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	s.mux.HandleFunc("POST /runs/{id}/retry", s.handleRetryRun)
	s.mux.HandleFunc("POST /runs/{id}/reset", s.handleResetRun)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}
