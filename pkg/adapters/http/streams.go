package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/pkg/domain"
)

// EventMessage is the JSON form of a lifecycle event on the SSE stream.
type EventMessage struct {
	Type     domain.EventType `json:"type"`
	Path     string           `json:"path"`
	From     string           `json:"from,omitempty"`
	Response string           `json:"response,omitempty"`
}

// StreamManager fans lifecycle events out to SSE subscribers. It is a
// domain.Listener; Broadcast never blocks the tick.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]map[domain.EventType]bool
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan []byte]map[domain.EventType]bool),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a subscriber. An empty filter receives every event
// type except service ticks.
func (sm *StreamManager) Subscribe(filter ...domain.EventType) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 64)
	var types map[domain.EventType]bool
	if len(filter) > 0 {
		types = make(map[domain.EventType]bool, len(filter))
		for _, t := range filter {
			types[t] = true
		}
	}
	sm.subscribers[ch] = types

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) OnEvent(e domain.Event) {
	sm.Broadcast(e)
}

// Broadcast sends e to every interested subscriber, dropping it for
// subscribers whose buffer is full.
func (sm *StreamManager) Broadcast(e domain.Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) == 0 {
		return
	}

	msg := EventMessage{Type: e.Type, Path: e.Path, From: e.From}
	if e.Type == domain.EventServiceTick {
		msg.Response = e.Response.String()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		sm.logger.Error("event encode failed", "error", err)
		return
	}

	for ch, types := range sm.subscribers {
		if types == nil && e.Type == domain.EventServiceTick {
			continue
		}
		if types != nil && !types[e.Type] {
			continue
		}
		select {
		case ch <- data:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", e.Type)
		}
	}
}

// SubscribeEvents handles GET /events (SSE). ?types=transition,node_changed
// narrows the stream.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var filter []domain.EventType
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filter = append(filter, domain.EventType(strings.TrimSpace(t)))
		}
	}

	ch, cancel := s.Streams.Subscribe(filter...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
