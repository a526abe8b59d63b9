// File: internal/infra/http/server.go
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"video-ai-tutor/internal/application"
	"video-ai-tutor/internal/domain/model"
)

const maxUploadBytes = 200 << 20 // audio uploads only

// Server exposes the study API over HTTP. All stateful routes identify the
// caller with an explicit owner_id; there is no session layer.
type Server struct {
	facade    *application.StudyFacade
	uploadDir string
	log       *zerolog.Logger
}

func NewServer(facade *application.StudyFacade, uploadDir string, logger *zerolog.Logger) *Server {
	return &Server{facade: facade, uploadDir: uploadDir, log: logger}
}

// Router builds the chi mux with all routes registered.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/api/learn/start", s.handleStart)
	r.Get("/api/learn/progress", s.handleProgress)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/speak", s.handleSpeak)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type startRequest struct {
	OwnerID string `json:"owner_id"`
	Mode    string `json:"mode"`
	Input   string `json:"input"`
}

// handleStart accepts either a JSON body (topic/playlist/single_url) or a
// multipart form with an "audio" file for uploads.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		path, ownerID, ok := s.saveUpload(w, r)
		if !ok {
			return
		}
		req = startRequest{OwnerID: ownerID, Mode: string(model.ModeUpload), Input: path}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	mode := model.IngestMode(req.Mode)
	switch mode {
	case model.ModeUpload, model.ModeTopic, model.ModePlaylist, model.ModeSingleURL:
	default:
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}

	resp, err := s.facade.HandleStart(r.Context(), req.OwnerID, mode, req.Input)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", req.OwnerID).Msg("start failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	status := http.StatusAccepted
	if !resp.Accepted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// saveUpload stores the posted audio file under the owner's upload dir and
// returns its path.
func (s *Server) saveUpload(w http.ResponseWriter, r *http.Request) (path, ownerID string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return "", "", false
	}
	ownerID = r.FormValue("owner_id")
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return "", "", false
	}
	defer file.Close()

	dir := filepath.Join(s.uploadDir, filepath.Base(ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", "", false
	}
	dst := filepath.Join(dir, filepath.Base(header.Filename))
	out, err := os.Create(dst)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", "", false
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", "", false
	}
	return dst, ownerID, true
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	resp, err := s.facade.HandleProgress(r.Context(), ownerID)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("progress read failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type chatRequest struct {
	OwnerID string `json:"owner_id"`
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OwnerID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "owner_id and message are required")
		return
	}
	// Tool failures are part of the conversation, not transport errors.
	writeJSON(w, http.StatusOK, s.facade.HandleChat(r.Context(), req.OwnerID, req.Message))
}

type speakRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	resp, err := s.facade.HandleSpeak(r.Context(), req.Text)
	if err != nil {
		s.log.Error().Err(err).Msg("speech synthesis failed")
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
