package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"voice-companion/internal/application"
	"voice-companion/internal/domain"
)

//go:embed static
var staticFS embed.FS

const maxAudioBytes = 10 * 1024 * 1024

// Controller is the slice of the session controller the web layer needs.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Submit(ctx context.Context, audio []byte) error
	Snapshot() domain.Snapshot
}

// Server exposes the browser UI and the session API.
type Server struct {
	addr       string
	controller Controller
	hub        *Hub
	logger     *slog.Logger

	mu      sync.Mutex
	server  *http.Server
	running bool
	mux     *http.ServeMux
}

func NewServer(addr string, controller Controller, hub *Hub, logger *slog.Logger) *Server {
	s := &Server{
		addr:       addr,
		controller: controller,
		hub:        hub,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /api/record/start", s.handleRecordStart)
	s.mux.HandleFunc("POST /api/record/stop", s.handleRecordStop)
	s.mux.HandleFunc("POST /api/audio", s.handleAudio)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /ws", s.hub.ServeWS)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("web server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("web server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.hub.CloseAll()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "missing UI assets", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleRecordStart(w http.ResponseWriter, r *http.Request) {
	err := s.controller.Start(r.Context())
	if errors.Is(err, application.ErrCycleActive) {
		s.writeJSON(w, http.StatusConflict, s.controller.Snapshot())
		return
	}
	// Other start failures (e.g. no microphone) are carried in the snapshot
	// as the fixed permission-denied message.
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleRecordStop(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Stop(r.Context()); err != nil {
		s.logger.Error("stopping recording", "error", err)
	}
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil {
		s.logger.Error("reading audio body", "error", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(data) == 0 {
		http.Error(w, "empty audio", http.StatusBadRequest)
		return
	}

	s.logger.Info("received audio upload", "bytes", len(data))

	if err := s.controller.Submit(r.Context(), data); errors.Is(err, application.ErrCycleActive) {
		s.writeJSON(w, http.StatusConflict, s.controller.Snapshot())
		return
	}

	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK
	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s","clients":%d}`, status, s.hub.ClientCount())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}
