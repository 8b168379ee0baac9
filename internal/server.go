package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Server exposes the pipeline over HTTP for browser frontends. It is the
// boundary layer only; all processing goes through the App.
type Server struct {
	app    *App
	config *Config
}

// NewServer creates an HTTP server around an App.
func NewServer(app *App) *Server {
	return &Server{app: app, config: app.config}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/files", s.handleIngest).Methods(http.MethodPost)
	r.HandleFunc("/api/files/{id}", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/files/{id}/transcript", s.handleTranscribe).Methods(http.MethodPost)
	r.HandleFunc("/api/files/{id}/transcript", s.handleGetTranscript).Methods(http.MethodGet)
	r.HandleFunc("/api/files/{id}/summary", s.handleSummarize).Methods(http.MethodPost)
	r.HandleFunc("/api/files/{id}/summary", s.handleGetSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/session", s.handleClearSession).Methods(http.MethodDelete)

	return r
}

// ListenAndServe runs the server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type fileResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngest accepts a multipart file upload (field "file") or a JSON
// body {"url": "..."} pointing at a YouTube video.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var in IngestResult
	var err error

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		in, err = s.ingestUpload(r)
	case strings.HasPrefix(contentType, "application/json"):
		in, err = s.ingestURL(r)
	default:
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "expected multipart upload or JSON body"})
		return
	}

	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	record, _ := s.app.Sessions().Get(in.ID)
	writeJSON(w, http.StatusCreated, fileResponse{ID: string(in.ID), State: record.State.String()})
}

func (s *Server) ingestUpload(r *http.Request) (IngestResult, error) {
	if err := r.ParseMultipartForm(s.config.MaxSegmentBytes); err != nil {
		return IngestResult{}, fmt.Errorf("parsing upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return IngestResult{}, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.config.MaxSegmentBytes+1))
	if err != nil {
		return IngestResult{}, fmt.Errorf("reading upload: %w", err)
	}

	return s.app.IngestBytes(data, filepath.Ext(header.Filename))
}

func (s *Server) ingestURL(r *http.Request) (IngestResult, error) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return IngestResult{}, fmt.Errorf("parsing request body: %w", err)
	}
	if !IsYouTubeURL(body.URL) {
		return IngestResult{}, fmt.Errorf("not a YouTube URL: %q", body.URL)
	}

	return s.app.Ingest(r.Context(), body.URL)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := ContentIdentity(mux.Vars(r)["id"])

	record, ok := s.app.Sessions().Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown file"})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		fileResponse
		Topic   string `json:"topic,omitempty"`
		Summary string `json:"summary,omitempty"`
	}{
		fileResponse: fileResponse{ID: string(id), State: record.State.String()},
		Topic:        record.Topic,
		Summary:      record.Summary,
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	id := ContentIdentity(mux.Vars(r)["id"])

	transcript, err := s.app.TranscribeByID(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNoTranscript):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, os.ErrNotExist):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	id := ContentIdentity(mux.Vars(r)["id"])

	transcript, err := s.app.Store().LoadTranscript(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no transcript for this file"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", id))
	_, _ = w.Write([]byte(transcript))
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	id := ContentIdentity(mux.Vars(r)["id"])

	result, err := s.app.Summarize(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	if result.Failed {
		// Still renderable text; the client shows it instead of crashing.
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"topic":   result.Topic,
		"summary": result.Summary,
		"failed":  result.Failed,
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id := ContentIdentity(mux.Vars(r)["id"])

	topic, summary, err := s.app.Store().LoadSummary(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no summary for this file"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", id))
	_, _ = fmt.Fprintf(w, "%s\n\n%s", topic, summary)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.app.Sessions().Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Printf("Warning: encoding response: %v\n", err)
	}
}
