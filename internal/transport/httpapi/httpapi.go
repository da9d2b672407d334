// Package httpapi is a control-plane transport that accepts one
// Request per POST /api body and replies with its Response (or an
// error envelope) as JSON, routed through a gorilla/mux subrouter
// mounted at /api. A supplemental read-only
// websocket feed at /api/events pushes NewWindows snapshots so a policy
// process can react to discovery without polling.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/demellj/wmgrd/internal/logger"
	"github.com/demellj/wmgrd/internal/wire"
)

// Submitter is the engine surface this transport drives.
type Submitter interface {
	Submit(req wire.Request) wire.Response
}

// Server is the HTTP control-plane transport.
type Server struct {
	router   *mux.Router
	eng      Submitter
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}
}

// NewServer builds the router; call ListenAndServe to start it.
func NewServer(eng Submitter) *Server {
	s := &Server{
		router: mux.NewRouter(),
		eng:    eng,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*websocket.Conn]struct{}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	api.HandleFunc("", s.handleRequest).Methods("POST")
	api.HandleFunc("/events", s.handleEvents).Methods("GET")
}

// ListenAndServe starts the HTTP server on addr, blocking until it
// errors or is shut down.
func (s *Server) ListenAndServe(addr string) error {
	logger.WithComponent(logger.ComponentTransportHTTP).Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent(logger.ComponentTransportHTTP)

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, wire.ErrorEnvelope{InvalidInput: err.Error()})
		return
	}

	req, err := wire.DecodeRequest(body)
	if err != nil {
		log.Debug().Err(err).Msg("invalid request")
		writeError(w, wire.ErrorEnvelope{InvalidInput: string(body)})
		return
	}

	resp := s.eng.Submit(req)

	if nw, ok := resp.(wire.NewWindows); ok && len(nw.Windows) > 0 {
		s.broadcast(resp)
	}

	w.Header().Set("Content-Type", "application/json")
	encoded, err := wire.EncodeResponse(resp)
	if err != nil {
		writeError(w, wire.ErrorEnvelope{InternalError: err.Error()})
		return
	}
	w.Write(encoded)
}

// handleEvents upgrades to a websocket and pushes any NewWindows
// responses other /api callers trigger, read-only from the client's
// perspective — it never accepts Requests over this connection.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.subscribers[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subscribers, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// Drain and discard anything the client sends; the read fails once
	// the client disconnects, which ends the subscription.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(resp wire.Response) {
	encoded, err := wire.EncodeResponse(resp)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.subscribers {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, encoded); err != nil {
			go conn.Close()
			delete(s.subscribers, conn)
		}
	}
}

func writeError(w http.ResponseWriter, env wire.ErrorEnvelope) {
	encoded, err := wire.EncodeError(env)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	w.Write(encoded)
}
