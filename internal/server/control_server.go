package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/playback"
	"Mansoor88-6/macro-plus/internal/recorder"
	"Mansoor88-6/macro-plus/internal/service"
	"Mansoor88-6/macro-plus/internal/store"

	"go.uber.org/zap"
)

// Controller is the part of the macro service exposed over HTTP
type Controller interface {
	Status() service.Status
	List() ([]models.MacroSummary, error)
	ToggleRecording() error
	Play() error
	StopAll()
	Load(name string) (*models.Macro, error)
	SaveCurrent(name string) error
	Delete(name string) error
}

// ControlServer serves the localhost control API
type ControlServer struct {
	controller Controller
	logger     *zap.Logger
}

// NewControlServer creates a new control server
func NewControlServer(controller Controller, logger *zap.Logger) *ControlServer {
	return &ControlServer{
		controller: controller,
		logger:     logger,
	}
}

// ServeHTTP implements http.Handler
func (s *ControlServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/health":
		s.route(w, r, http.MethodGet, s.handleHealth)
	case "/api/v1/status":
		s.route(w, r, http.MethodGet, s.handleStatus)
	case "/api/v1/record/toggle":
		s.route(w, r, http.MethodPost, s.handleRecordToggle)
	case "/api/v1/play":
		s.route(w, r, http.MethodPost, s.handlePlay)
	case "/api/v1/stop":
		s.route(w, r, http.MethodPost, s.handleStop)
	case "/api/v1/macros":
		switch r.Method {
		case http.MethodGet:
			s.handleList(w, r)
		case http.MethodDelete:
			s.handleDelete(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "/api/v1/macros/load":
		s.route(w, r, http.MethodPost, s.handleLoad)
	case "/api/v1/macros/save":
		s.route(w, r, http.MethodPost, s.handleSave)
	default:
		http.NotFound(w, r)
	}
}

func (s *ControlServer) route(w http.ResponseWriter, r *http.Request, method string, h http.HandlerFunc) {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h(w, r)
}

func (s *ControlServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

func (s *ControlServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *ControlServer) handleRecordToggle(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.ToggleRecording(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *ControlServer) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Play(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.controller.Status())
}

func (s *ControlServer) handleStop(w http.ResponseWriter, r *http.Request) {
	s.controller.StopAll()
	s.writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *ControlServer) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.controller.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *ControlServer) handleLoad(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	m, err := s.controller.Load(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("Macro loaded via control API", zap.String("name", name))
	s.writeJSON(w, http.StatusOK, m.Summary())
}

func (s *ControlServer) handleSave(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if err := s.controller.SaveCurrent(name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.controller.Status())
}

func (s *ControlServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Delete(r.URL.Query().Get("name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrMacroNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidName),
		errors.Is(err, playback.ErrInvalidSpeed),
		errors.Is(err, playback.ErrInvalidRepeat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBusy),
		errors.Is(err, service.ErrClosed),
		errors.Is(err, recorder.ErrAlreadyRecording),
		errors.Is(err, recorder.ErrNotRecording),
		errors.Is(err, playback.ErrAlreadyPlaying),
		errors.Is(err, playback.ErrEmptyMacro):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *ControlServer) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("Control API request failed", zap.Error(err))
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *ControlServer) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
