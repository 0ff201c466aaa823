// Package stream serves simulator frames over websockets and accepts
// control messages from connected clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	DefaultRate  = 30
	writeTimeout = 5 * time.Second
)

type client struct {
	id   uuid.UUID
	send chan Message
}

// Server steps a simulator at a fixed rate and broadcasts each frame to
// every connected client. Slow clients drop frames rather than stalling the
// loop.
type Server struct {
	sim   *nbody.Simulator
	rate  int
	steps int
	log   *slog.Logger

	paused atomic.Bool
	latest atomic.Pointer[Frame]

	mu      sync.Mutex
	clients map[uuid.UUID]*client
}

type Option func(*Server)

// WithRate sets the broadcast rate in frames per second.
func WithRate(fps int) Option { return func(s *Server) { s.rate = fps } }

// WithStepsPerFrame sets how many ticks run between broadcasts.
func WithStepsPerFrame(n int) Option { return func(s *Server) { s.steps = n } }

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.log = l } }

func NewServer(sim *nbody.Simulator, opts ...Option) *Server {
	s := &Server{
		sim:     sim,
		rate:    DefaultRate,
		steps:   1,
		log:     slog.New(slog.DiscardHandler),
		clients: make(map[uuid.UUID]*client),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rate = max(s.rate, 1)
	s.steps = max(s.steps, 1)
	return s
}

// Handler routes /ws to the websocket endpoint and /frame to a JSON dump of
// the latest frame.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.HandleFunc("GET /frame", s.serveFrame)
	return mux
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) Paused() bool { return s.paused.Load() }

// Run drives the simulation until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.rate))
	defer ticker.Stop()

	var snap nbody.Snapshot
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := s.advance(&snap); err != nil {
			s.paused.Store(true)
			s.log.ErrorContext(ctx, "simulation halted", "err", err)
			s.broadcast(Message{Type: TypeError, Error: err.Error()})
		}
		f := s.frame(snap)
		s.latest.Store(f)
		s.broadcast(Message{Type: TypeFrame, Frame: f})
	}
}

func (s *Server) advance(snap *nbody.Snapshot) error {
	if s.paused.Load() {
		*snap = s.sim.Snapshot()
		return nil
	}
	for i := 0; i < s.steps; i++ {
		if err := s.sim.StepInto(snap); err != nil {
			*snap = s.sim.Snapshot()
			return err
		}
	}
	return nil
}

func (s *Server) frame(snap nbody.Snapshot) *Frame {
	f := newFrame(snap)
	f.Collided = s.sim.Collided()
	f.Paused = s.paused.Load()
	f.TimeScale = s.sim.TimeScale()
	f.DistanceScale = s.sim.DistanceScale()
	return f
}

func (s *Server) broadcast(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Apply executes one control message against the simulator.
func (s *Server) Apply(ctl Control) error {
	switch ctl.Type {
	case ControlTimeScale:
		return s.sim.SetTimeScale(ctl.Value)
	case ControlDistanceScale:
		return s.sim.SetDistanceScale(ctl.Value)
	case ControlReset:
		if err := s.sim.Reset(); err != nil {
			return err
		}
		s.paused.Store(false)
		return nil
	case ControlPause:
		if ctl.Paused != nil {
			s.paused.Store(*ctl.Paused)
		} else {
			s.paused.Store(!s.paused.Load())
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownControl, ctl.Type)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.ErrorContext(r.Context(), "failed to accept", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{id: uuid.New(), send: make(chan Message, 4)}
	s.register(c)
	defer s.unregister(c)
	s.log.DebugContext(ctx, "client connected", "client", c.id)

	if err := s.write(ctx, conn, Message{Type: TypeHello, Client: c.id.String()}); err != nil {
		return
	}

	go s.writeLoop(ctx, cancel, conn, c)

	for {
		var ctl Control
		if err := wsjson.Read(ctx, conn, &ctl); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				s.log.DebugContext(ctx, "client disconnected", "client", c.id)
			} else {
				s.log.WarnContext(ctx, "client read failed", "client", c.id, "err", err)
			}
			return
		}
		s.log.DebugContext(ctx, "control", "client", c.id, "type", ctl.Type, "value", ctl.Value)
		if err := s.Apply(ctl); err != nil {
			select {
			case c.send <- Message{Type: TypeError, Error: err.Error()}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			if err := s.write(ctx, conn, msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	f := s.latest.Load()
	if f == nil {
		f = s.frame(s.sim.Snapshot())
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(f); err != nil {
		s.log.WarnContext(r.Context(), "frame encode failed", "err", err)
	}
}
