// Package bridge exposes the experience to an out-of-process host over a
// websocket: JSON commands in, hotspot and loading events out.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/vaporwear"
)

// Event types sent to hosts.
const (
	EventHotspotUpdate              = "hotspotUpdate"
	EventConfigurationOptionsLoaded = "configurationOptionsLoaded"
	EventError                      = "error"
)

const (
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
)

// Event is a message to the host.
type Event struct {
	Type     string                    `json:"type"`
	Hotspots []vaporwear.HotspotUpdate `json:"hotspots,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// Commander accepts host commands from any goroutine.
type Commander interface {
	Enqueue(cmd vaporwear.Command) error
}

// client is one connected host.
type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server relays commands to a Commander and broadcasts events to every
// connected host.
type Server struct {
	commander Commander
	upgrader  websocket.Upgrader

	clients map[*client]struct{}
	mu      sync.RWMutex

	loaded atomic.Bool
	log    *zap.Logger
}

// NewServer creates a bridge for c. Any origin may connect.
func NewServer(c Commander) *Server {
	return &Server{
		commander: c,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		log:     logger.Named("bridge"),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("host connected", zap.String("remote", r.RemoteAddr))

	if s.loaded.Load() {
		s.sendTo(c, Event{Type: EventConfigurationOptionsLoaded})
	}

	go s.writePump(c)
	s.readPump(c)
}

// readPump decodes commands until the connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.remove(c)
		_ = c.conn.Close()
	}()

	for {
		var cmd vaporwear.Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if malformed(err) {
				s.sendTo(c, Event{Type: EventError, Error: err.Error()})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("host connection lost", zap.Error(err))
			}
			return
		}

		if err := s.commander.Enqueue(cmd); err != nil {
			s.log.Debug("command rejected", zap.String("command", cmd.Name), zap.Error(err))
			s.sendTo(c, Event{Type: EventError, Error: err.Error()})
		}
	}
}

// malformed reports whether err comes from decoding a message rather than
// from the connection. Connection errors are sticky, so a misclassified one
// ends the loop on the next read.
func malformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// writePump sends queued messages until the queue is closed.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.log.Warn("writing to host", zap.Error(err))
			s.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
	s.mu.Unlock()
}

// sendTo queues ev for one client. A client whose queue is full misses the
// event.
func (s *Server) sendTo(c *client, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("encoding event", zap.Error(err))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		s.log.Debug("host queue full, event dropped", zap.String("type", ev.Type))
	}
}

// Broadcast queues ev for every client without blocking.
func (s *Server) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("encoding event", zap.Error(err))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Debug("host queue full, event dropped", zap.String("type", ev.Type))
		}
	}
}

// HotspotUpdate broadcasts a hotspot update. It has the signature of an
// experience hotspot listener.
func (s *Server) HotspotUpdate(updates []vaporwear.HotspotUpdate) {
	s.Broadcast(Event{Type: EventHotspotUpdate, Hotspots: updates})
}

// ConfigurationOptionsLoaded broadcasts the loading event. Hosts that
// connect later receive it on connect.
func (s *Server) ConfigurationOptionsLoaded() {
	s.loaded.Store(true)
	s.Broadcast(Event{Type: EventConfigurationOptionsLoaded})
}

// Clients returns the number of connected hosts.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ListenAndServe serves the bridge at path on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("bridge listening", zap.String("addr", addr), zap.String("path", path))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.closeAll()
	return nil
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}
