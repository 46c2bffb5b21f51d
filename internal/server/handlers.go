package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"tubescribe/internal/docwriter"
	"tubescribe/internal/media"
	"tubescribe/internal/summarize"
	"tubescribe/internal/whisper"
	"tubescribe/internal/ytdlp"
)

// maxUploadSize bounds multipart form parsing, not the video download
// itself; the downloader enforces its own ceiling.
const maxUploadSize = 512 << 20

type urlRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := media.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta, err := s.svc.Video.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		s.toolError(w, r, "fetch metadata", err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleDownloadVideo(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := media.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Metadata first: the attachment is named after the video title.
	meta, err := s.svc.Video.FetchMetadata(r.Context(), req.URL)
	if err != nil {
		s.toolError(w, r, "fetch metadata", err)
		return
	}
	video, err := s.svc.Video.FetchVideo(r.Context(), req.URL)
	if err != nil {
		s.toolError(w, r, "download video", err)
		return
	}

	writeAttachment(w, video.MIME, ytdlp.SanitizeFilename(meta.Title)+".mp4", video.Data)
}

func (s *Server) handleExtractAudio(w http.ResponseWriter, r *http.Request) {
	video, ok := s.readUpload(w, r, "video", "videoData", "video/mp4")
	if !ok {
		return
	}

	if err := s.svc.Audio.Load(r.Context(), nil); err != nil {
		s.toolError(w, r, "load transcoder", err)
		return
	}
	audio, err := s.svc.Audio.ExtractAudio(r.Context(), video, nil)
	if err != nil {
		s.toolError(w, r, "extract audio", err)
		return
	}

	writeAttachment(w, audio.MIME, "audio.mp3", audio.Data)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var language, model string

	audio, params, ok := s.readUploadWithParams(w, r)
	if !ok {
		return
	}
	language = params["language"]
	model = params["model"]

	if language == "" {
		language = s.defaults.Language
	}
	if model == "" {
		model = s.defaults.Model
	}
	if !whisper.ValidModel(model) {
		writeError(w, http.StatusBadRequest, "unrecognized model: "+model)
		return
	}

	result, err := s.svc.Speech.Transcribe(r.Context(), audio, language, model)
	if err != nil {
		s.toolError(w, r, "transcribe", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type summarizeRequest struct {
	Transcription string `json:"transcription"`
	SummaryType   string `json:"summaryType"`
	Language      string `json:"language"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SummaryType == "" {
		req.SummaryType = s.defaults.SummaryType
	}
	if req.Language == "" {
		req.Language = s.defaults.SummaryLang
	}

	result, err := s.svc.Summary.Summarize(r.Context(), req.Transcription, req.SummaryType, req.Language)
	if err != nil {
		if errors.Is(err, summarize.ErrInputTooShort) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.toolError(w, r, "summarize", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type exportRequest struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Transcription string `json:"transcription"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Transcription) == "" {
		writeError(w, http.StatusBadRequest, "transcription is required")
		return
	}
	if req.Title == "" {
		req.Title = media.PlaceholderTitle
	}

	data, err := docwriter.Build(r.Context(), s.store, req.Title, req.Summary, req.Transcription)
	if err != nil {
		s.toolError(w, r, "export document", err)
		return
	}

	const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	writeAttachment(w, docxMIME, ytdlp.SanitizeFilename(req.Title)+".docx", data)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := s.runs.Start(req.URL)
	if err != nil {
		if errors.Is(err, media.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.toolError(w, r, "start run", err)
		return
	}

	writeJSON(w, http.StatusCreated, run.Snapshot())
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (s *Server) handleRetryRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Retry(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (s *Server) handleResetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Reset(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

// readUpload accepts a media payload either as a multipart file field or as
// a base64 JSON field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, fileField, jsonField, mime string) (media.Buffer, bool) {
	buf, _, ok := s.readPayload(w, r, fileField, jsonField, mime)
	return buf, ok
}

// readUploadWithParams is readUpload for the transcription endpoint, which
// also carries language and model options in either encoding.
func (s *Server) readUploadWithParams(w http.ResponseWriter, r *http.Request) (media.Buffer, map[string]string, bool) {
	return s.readPayload(w, r, "audio", "audioData", "audio/mpeg")
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request, fileField, jsonField, mime string) (media.Buffer, map[string]string, bool) {
	params := map[string]string{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "unable to parse form")
			return media.Buffer{}, nil, false
		}
		file, header, err := r.FormFile(fileField)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing "+fileField+" file")
			return media.Buffer{}, nil, false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unable to read "+fileField+" file")
			return media.Buffer{}, nil, false
		}
		params["language"] = r.FormValue("language")
		params["model"] = r.FormValue("model")

		if ct := header.Header.Get("Content-Type"); ct != "" {
			mime = ct
		}
		return media.Buffer{Data: data, MIME: mime}, params, true
	}

	var req struct {
		VideoData string `json:"videoData"`
		AudioData string `json:"audioData"`
		Language  string `json:"language"`
		Model     string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return media.Buffer{}, nil, false
	}

	encoded := req.AudioData
	if jsonField == "videoData" {
		encoded = req.VideoData
	}
	if encoded == "" {
		writeError(w, http.StatusBadRequest, "missing "+jsonField)
		return media.Buffer{}, nil, false
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base64 in "+jsonField)
		return media.Buffer{}, nil, false
	}
	params["language"] = req.Language
	params["model"] = req.Model

	return media.Buffer{Data: data, MIME: mime}, params, true
}

// toolError maps adapter failures onto 500 responses, keeping the captured
// diagnostic text in the body.
func (s *Server) toolError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.log.Error(r.Context(), "%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
