package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"drink-reminder/internal/domain"
	"drink-reminder/internal/logging"
	"drink-reminder/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.ReminderUseCase
	server  *http.Server
}

// NewServer creates the HTTP server bound to addr. metrics may be nil.
func NewServer(uc usecase.ReminderUseCase, addr string, metrics http.Handler) *Server {
	srv := &Server{usecase: uc}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.routes(metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

func (s *Server) routes(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/start", s.handleStart)
	mux.HandleFunc("/api/stop", s.handleStop)
	mux.HandleFunc("/api/remind", s.handleRemind)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.HandleFunc("/", s.handleRoot)
	return loggingMiddleware(mux)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req startPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err := s.usecase.StartInput(r.Context(), string(req.IntervalMinutes))
	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		status = http.StatusUnprocessableEntity
	case err != nil:
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.usecase.Stop(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	err := s.usecase.RemindNow(r.Context())
	view := snapshotToView(s.usecase.Snapshot())
	if err != nil {
		view["reminderError"] = err.Error()
	}
	respondJSON(w, http.StatusOK, view)
}

func snapshotToView(snap domain.StatusView) map[string]any {
	view := map[string]any{
		"state":           snap.State.String(),
		"intervalMinutes": snap.IntervalMinutes,
		"status": map[string]any{
			"message": snap.Status.Message,
			"tone":    snap.Status.Tone.String(),
			"color":   snap.Status.Tone.Color(),
		},
		"controls": map[string]bool{
			"start": snap.StartEnabled,
			"stop":  snap.StopEnabled,
			"input": snap.InputEnabled,
		},
	}
	if !snap.StartedAt.IsZero() {
		view["startedAt"] = snap.StartedAt
	}
	if !snap.LastReminder.IsZero() {
		view["lastReminder"] = snap.LastReminder
	}
	return view
}

// intervalField accepts both 25 and "25" so the page can post the raw input value.
type intervalField string

func (f *intervalField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = intervalField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = intervalField(n.String())
	return nil
}

type startPayload struct {
	IntervalMinutes intervalField `json:"intervalMinutes"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logging.Logger().Info("http request",
			logging.RequestID(requestID),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start).String())
	})
}
