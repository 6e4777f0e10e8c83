// Package api exposes an HTTP debug surface for a running mxtpd instance:
// a JSON stats API and a WebSocket live frame feed for dashboards.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/axonmocap/mxtpd/internal/character"
	"github.com/axonmocap/mxtpd/internal/mxtp"
	"github.com/axonmocap/mxtpd/internal/sink"
)

// ReassemblerStats is implemented by whatever owns the live reassembler
// (the UDP transport) to expose read-only diagnostics.
type ReassemblerStats interface {
	InFlight() int
	Characters() []uint8
}

// Server serves the debug HTTP API and fans out completed frames to
// connected WebSocket clients. It itself implements sink.Sink so it can be
// registered alongside the JSONL recorder and any channel sinks.
type Server struct {
	addr     string
	log      *slog.Logger
	stats    ReassemblerStats
	sessions *character.Registry

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan mxtp.Frame

	framesEmitted int64
}

// New returns a Server bound to addr (not yet listening), reporting stats
// from provider and character sessions from sessions. sessions may be nil,
// in which case /api/characters falls back to the bare ID list from
// provider. If log is nil, slog.Default() is used.
func New(addr string, provider ReassemblerStats, sessions *character.Registry, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr:     addr,
		log:      log.With("component", "debug-api"),
		stats:    provider,
		sessions: sessions,
		clients:  make(map[*websocket.Conn]chan mxtp.Frame),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", s.addr)
	err := httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve on %s: %w", s.addr, err)
	}
	return nil
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/characters", s.handleCharacters).Methods(http.MethodGet)
	r.HandleFunc("/api/reassembler/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

type characterInfo struct {
	CharacterID uint8 `json:"character_id"`
}

func (s *Server) handleCharacters(w http.ResponseWriter, _ *http.Request) {
	if s.sessions != nil {
		writeJSON(w, http.StatusOK, s.sessions.List())
		return
	}

	var ids []uint8
	if s.stats != nil {
		ids = s.stats.Characters()
	}
	out := make([]characterInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, characterInfo{CharacterID: id})
	}
	writeJSON(w, http.StatusOK, out)
}

type statsResponse struct {
	InFlight      int   `json:"in_flight"`
	FramesEmitted int64 `json:"frames_emitted"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	inFlight := 0
	if s.stats != nil {
		inFlight = s.stats.InFlight()
	}
	s.mu.Lock()
	emitted := s.framesEmitted
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, statsResponse{InFlight: inFlight, FramesEmitted: emitted})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan mxtp.Frame, 64)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for frame := range ch {
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

// OnFrame implements sink.Sink, fanning the frame out to every connected
// WebSocket client. A client whose buffer is full is dropped rather than
// allowed to block ingest.
func (s *Server) OnFrame(f mxtp.Frame) {
	s.mu.Lock()
	s.framesEmitted++
	for conn, ch := range s.clients {
		select {
		case ch <- f:
		default:
			s.log.Warn("websocket client too slow, disconnecting")
			delete(s.clients, conn)
			close(ch)
		}
	}
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

var _ sink.Sink = (*Server)(nil)
