// Package server exposes decoded telemetry to visualization clients over
// HTTP: the latest frame as JSON and a websocket stream of every published
// frame.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/streamplot/streamplot/internal/telemetry"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Server serves the dashboard API. Publish is fed by the decoding engine's
// subscriber callback; handlers only ever see completed snapshots.
type Server struct {
	addr string
	hub  *hub
	log  zerolog.Logger

	mu       sync.RWMutex
	latest   telemetry.Frame
	hasFrame bool

	srv *http.Server
}

// New creates a dashboard server listening on addr.
func New(addr string, log zerolog.Logger) *Server {
	s := &Server{
		addr: addr,
		log:  log.With().Str("component", "server").Logger(),
	}
	s.hub = newHub(s.log)
	return s
}

// Publish stores the frame as the latest snapshot and broadcasts it to all
// websocket clients.
func (s *Server) Publish(frame telemetry.Frame) {
	s.mu.Lock()
	s.latest = frame
	s.hasFrame = true
	s.mu.Unlock()

	payload, err := json.Marshal(frame)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not encode frame")
		return
	}
	s.hub.broadcast(payload)
}

// Start launches the HTTP server in the background. It returns immediately;
// listen failures are logged from the serving goroutine.
func (s *Server) Start(ctx context.Context) {
	r := mux.NewRouter()
	r.HandleFunc("/api/frame", s.handleFrame).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	s.srv = &http.Server{Addr: s.addr, Handler: r}

	go func() {
		s.log.Info().Str("addr", s.addr).Msg("dashboard listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("dashboard server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop() {
	s.shutdown()
}

func (s *Server) shutdown() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
	s.hub.closeAll()
}

// handleFrame returns the most recently published frame.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame, ok := s.latest, s.hasFrame
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "no frame decoded yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(frame)
}

// handleStatus reports connection and frame availability.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hasFrame := s.hasFrame
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"hasFrame": hasFrame,
		"clients":  s.hub.count(),
	})
}

// handleWS upgrades the connection and registers it for frame broadcasts.
// The read loop only exists to detect the client going away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := s.hub.add(conn)

	go func() {
		defer s.hub.remove(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
