package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/internal/presentation/graph"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/schema"
	"github.com/aretw0/hfsm/pkg/values"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrPathNotFound is returned by POST /play when the path does not resolve.
var ErrPathNotFound = errors.New("path not found")

// Server exposes an Animator over HTTP. Every handler takes the lock, so
// requests interleave with the tick loop but never overlap it.
type Server struct {
	Animator *hfsm.Animator
	Streams  *StreamManager

	lock     sync.Locker
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLocker shares the lock of the goroutine that ticks the Animator,
// typically an *hfsm.Loop.
func WithLocker(l sync.Locker) Option {
	return func(s *Server) {
		s.lock = l
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates the server and subscribes its stream manager to the
// Animator's lifecycle events.
func NewServer(a *hfsm.Animator, opts ...Option) *Server {
	s := &Server{
		Animator: a,
		Streams:  NewStreamManager(),
		lock:     &sync.Mutex{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	a.AddListener(s.Streams)
	return s
}

// NewHandler is NewServer followed by Routes.
func NewHandler(a *hfsm.Animator, opts ...Option) http.Handler {
	return NewServer(a, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/values", s.GetValues)
	r.Put("/values/{name}", s.PutValue)
	r.Post("/triggers/{name}", s.PostTrigger)
	r.Post("/play", s.PostPlay)
	r.Post("/restart", s.PostRestart)
	r.Post("/pause", s.PostPause)
	r.Post("/resume", s.PostResume)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// State is the body of GET /state and of every mutating endpoint.
type State struct {
	Layer   string          `json:"layer"`
	Running bool            `json:"running"`
	Paused  bool            `json:"paused"`
	Path    []string        `json:"path"`
	Current string          `json:"current"`
	Values  values.Snapshot `json:"values"`
}

// with runs fn under the lock and answers with the resulting state.
func (s *Server) with(w http.ResponseWriter, fn func(a *hfsm.Animator) error) {
	s.lock.Lock()
	err := fn(s.Animator)
	st := s.state()
	s.lock.Unlock()

	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrUnknownValue) || errors.Is(err, ErrPathNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) state() State {
	a := s.Animator
	return State{
		Layer:   a.Layer().Name,
		Running: a.Running(),
		Paused:  a.Paused(),
		Path:    a.ActivePath(),
		Current: a.Current(),
		Values:  a.Values().Snapshot(),
	}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "hfsm-http",
		"version": strings.TrimSpace(hfsm.Version),
		"layer":   s.Animator.Layer().Name,
	})
}

func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.with(w, func(*hfsm.Animator) error { return nil })
}

func (s *Server) GetValues(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	snap := s.Animator.Values().Snapshot()
	s.lock.Unlock()
	s.writeJSON(w, http.StatusOK, snap)
}

// PutValue handles PUT /values/{name} with a JSON body holding the raw value.
func (s *Server) PutValue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.with(w, func(a *hfsm.Animator) error { return a.Set(name, raw) })
}

func (s *Server) PostTrigger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.with(w, func(a *hfsm.Animator) error { return a.SetTrigger(name) })
}

// PlayRequest is the body of POST /play.
type PlayRequest struct {
	Path string `json:"path"`
}

// PostPlay answers 404 when the path does not resolve; the Animator has
// restarted from its defaults in that case.
func (s *Server) PostPlay(w http.ResponseWriter, r *http.Request) {
	var body PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.with(w, func(a *hfsm.Animator) error {
		if !a.Play(body.Path) {
			return fmt.Errorf("%w: %q", ErrPathNotFound, body.Path)
		}
		return nil
	})
}

func (s *Server) PostRestart(w http.ResponseWriter, r *http.Request) {
	s.with(w, func(a *hfsm.Animator) error { a.Restart(); return nil })
}

func (s *Server) PostPause(w http.ResponseWriter, r *http.Request) {
	s.with(w, func(a *hfsm.Animator) error { a.Pause(); return nil })
}

func (s *Server) PostResume(w http.ResponseWriter, r *http.Request) {
	s.with(w, func(a *hfsm.Animator) error { a.Resume(); return nil })
}

// GetGraph renders the layer as Mermaid with the active chain highlighted.
// ?format=yaml or ?format=json return the layer document instead.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "yaml" || format == "json" {
		doc, err := schema.Encode(s.Animator.Layer())
		if err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
		encode, ctype := schema.EncodeJSON, "application/json"
		if format == "yaml" {
			encode, ctype = schema.EncodeYAML, "text/yaml"
		}
		data, err := encode(doc)
		if err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", ctype)
		_, _ = w.Write(data)
		return
	}

	s.lock.Lock()
	path := s.Animator.ActivePath()
	current := s.Animator.Current()
	s.lock.Unlock()

	overlay := &graph.Overlay{Current: current}
	for i := range path {
		overlay.Active = append(overlay.Active, strings.Join(path[:i+1], "/"))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.Animator.Layer(), overlay)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
