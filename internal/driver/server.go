package driver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/config"
	"github.com/CarterRock49/MTG-AI-Project/internal/game"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server accepts websocket connections and gives each one its own engine.
type Server struct {
	table    *cards.Table
	opts     game.Options
	sink     game.ResultSink
	logger   *zap.Logger
	cfg      config.ServerConfig
	upgrader websocket.Upgrader
	sessions atomic.Int64
	active   atomic.Int64

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewServer creates a driver server. table may be nil to use the global card table.
func NewServer(table *cards.Table, opts game.Options, sink game.ResultSink, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		table:  table,
		opts:   opts,
		sink:   sink,
		logger: logger,
		cfg:    cfg,
		conns:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes: /ws for sessions and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %d\n", s.active.Load())
	})
	return mux
}

// ActiveSessions returns the number of open connections.
func (s *Server) ActiveSessions() int64 {
	return s.active.Load()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	if !s.track(conn) {
		_ = conn.Close()
		return
	}
	defer s.untrack(conn)
	n := s.sessions.Add(1)
	s.active.Add(1)
	defer s.active.Add(-1)

	sess := &session{
		id:     n,
		server: s,
		conn:   conn,
		seed:   s.opts.Seed + (n-1)*1_000_003,
		logger: s.logger.With(zap.Int64("session", n)),
	}
	sess.logger.Info("driver session opened", zap.String("remote", r.RemoteAddr))
	sess.run(r.Context())
	sess.logger.Info("driver session closed")
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// Close sends a close frame to every open session and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	deadline := time.Now().Add(time.Second)
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		_ = conn.Close()
	}
}

type session struct {
	id     int64
	server *Server
	conn   *websocket.Conn
	engine *game.Engine
	seed   int64
	logger *zap.Logger
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	if s.server.cfg.ReadLimit > 0 {
		s.conn.SetReadLimit(s.server.cfg.ReadLimit)
	}
	for {
		var req Request
		if err := s.conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read failed", zap.Error(err))
			}
			return
		}
		resp := s.handle(ctx, req)
		if s.server.cfg.WriteTimeout > 0 {
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.cfg.WriteTimeout))
		}
		if err := s.conn.WriteJSON(resp); err != nil {
			s.logger.Debug("write failed", zap.Error(err))
			return
		}
	}
}

func (s *session) handle(ctx context.Context, req Request) Response {
	var (
		resp Response
		err  error
	)
	switch req.Type {
	case TypeReset:
		resp, err = s.reset(ctx, req)
	case TypeStep:
		resp, err = s.step(ctx, req)
	case TypeLegal, TypeObservation:
		resp, err = s.observe()
	default:
		err = fmt.Errorf("unknown request type %q", req.Type)
	}
	if err != nil {
		s.logger.Warn("rejected driver request", zap.String("type", req.Type), zap.Error(err))
		resp.Type = TypeError
		resp.Error = err.Error()
	}
	return resp
}

func (s *session) reset(ctx context.Context, req Request) (Response, error) {
	if s.engine == nil || req.Seed != nil {
		opts := s.server.opts
		opts.Seed = s.seed
		if req.Seed != nil {
			opts.Seed = *req.Seed
		}
		e, err := game.NewEngine(s.server.table, opts, s.logger, s.server.sink)
		if err != nil {
			return Response{}, err
		}
		s.engine = e
	}
	obs, err := s.engine.Reset(ctx)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Type:        TypeObservation,
		Observation: &obs,
		Legal:       s.engine.LegalActions(),
	}, nil
}

func (s *session) step(ctx context.Context, req Request) (Response, error) {
	if s.engine == nil {
		return Response{}, game.ErrNotStarted
	}
	var action game.Action
	switch {
	case req.Index != nil:
		legal := s.engine.LegalActions()
		if *req.Index < 0 || *req.Index >= len(legal) {
			return Response{}, fmt.Errorf("%w: index %d outside %d legal actions", game.ErrIllegalAction, *req.Index, len(legal))
		}
		action = legal[*req.Index]
	case req.Action != nil:
		action = *req.Action
	default:
		return Response{}, errors.New("step needs an index or an action")
	}

	res, err := s.engine.Step(ctx, action)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Type:        TypeObservation,
		Observation: &res.Observation,
		Reward:      res.Reward,
		Rewards:     res.Info.Rewards,
		Terminal:    res.Terminal,
		Result:      res.Info.Result,
	}
	if !res.Terminal {
		resp.Legal = s.engine.LegalActions()
	}
	return resp, nil
}

func (s *session) observe() (Response, error) {
	if s.engine == nil {
		return Response{}, game.ErrNotStarted
	}
	obs, err := s.engine.Observation()
	if err != nil {
		return Response{}, err
	}
	return Response{
		Type:        TypeObservation,
		Observation: &obs,
		Legal:       s.engine.LegalActions(),
		Terminal:    obs.Terminal,
	}, nil
}
