// Package server exposes matches over a WebSocket gateway. Clients send
// JSON commands and receive the full engine event stream plus state
// snapshots in return.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ptcgsim/ptcg-server-go/internal/config"
	"github.com/ptcgsim/ptcg-server-go/internal/deck"
	"github.com/ptcgsim/ptcg-server-go/internal/game"
	"github.com/ptcgsim/ptcg-server-go/internal/repository"
)

// WSMessage is the wire envelope in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	MatchID string          `json:"match_id,omitempty"`
	Player  int             `json:"player,omitempty"`
	Event   string          `json:"event,omitempty"`
	OK      *bool           `json:"ok,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    any             `json:"data,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// commandPayload carries the per-command arguments.
type commandPayload struct {
	Seed       uint32 `json:"seed"`
	Deck0      string `json:"deck0"`
	Deck1      string `json:"deck1"`
	Card       string `json:"card"`
	HandIndex  int    `json:"hand_index"`
	BenchIndex int    `json:"bench_index"`
	TargetUID  int    `json:"target_uid"`
	Attack     int    `json:"attack"`
	Turns      int    `json:"turns"`
}

// Client is one WebSocket connection.
type Client struct {
	conn    *websocket.Conn
	send    chan WSMessage
	session *MatchSession
	logger  *zap.Logger
}

func (c *Client) trySend(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
		// Slow consumer; the event stream is droppable, snapshots are not.
	}
}

// Server is the WebSocket gateway.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	index *deck.Index
	decks map[string][]game.CardTemplate
	repo  *repository.MatchRepository

	matchesMu sync.RWMutex
	matches   map[string]*MatchSession

	upgrader websocket.Upgrader
}

// New creates a gateway. repo may be nil to disable persistence.
func New(cfg *config.Config, templates []game.CardTemplate, decks map[string][]game.CardTemplate, repo *repository.MatchRepository, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		index:   deck.NewIndex(templates),
		decks:   decks,
		repo:    repo,
		matches: make(map[string]*MatchSession),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the gateway.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe runs the gateway until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	s.logger.Info("gateway listening", zap.String("addr", s.cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	client := &Client{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		logger: s.logger,
	}
	go client.writePump()
	go s.readPump(client)
}

func (s *Server) readPump(c *Client) {
	defer func() {
		if c.session != nil {
			c.session.Detach(c)
		}
		close(c.send)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.trySend(WSMessage{Type: "error", Error: "malformed message"})
			continue
		}
		msg.Raw = raw
		s.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) handleMessage(c *Client, msg WSMessage) {
	var args commandPayload
	if len(msg.Raw) > 0 {
		var envelope struct {
			Data commandPayload `json:"data"`
		}
		if err := json.Unmarshal(msg.Raw, &envelope); err == nil {
			args = envelope.Data
		}
	}

	switch msg.Type {
	case "create_match":
		s.createMatch(c, msg, args)
	case "join_match":
		s.joinMatch(c, msg)
	case "state":
		if sess := s.requireSession(c); sess != nil {
			c.trySend(WSMessage{Type: "state", MatchID: sess.ID(), Data: sess.State()})
		}
	case "hand":
		if sess := s.requireSession(c); sess != nil {
			c.trySend(WSMessage{Type: "hand", MatchID: sess.ID(), Player: msg.Player, Data: sess.Hand(msg.Player)})
		}
	case "card":
		if tpl, ok := s.index.Lookup(args.Card); ok {
			c.trySend(WSMessage{Type: "card", Data: tpl})
		} else {
			c.trySend(WSMessage{Type: "error", Error: "unknown card id " + args.Card})
		}
	case "start_turn":
		s.run(c, msg, func(e *game.Engine) bool { return e.StartTurn() })
	case "end_turn":
		s.run(c, msg, func(e *game.Engine) bool { return e.EndTurn() })
	case "place_active":
		s.run(c, msg, func(e *game.Engine) bool { return e.PlaceActive(msg.Player, args.HandIndex) })
	case "place_bench":
		s.run(c, msg, func(e *game.Engine) bool { return e.PlaceBench(msg.Player, args.HandIndex, args.BenchIndex) })
	case "attach_energy":
		s.run(c, msg, func(e *game.Engine) bool { return e.AttachEnergy(msg.Player, args.HandIndex, args.TargetUID) })
	case "retreat":
		s.run(c, msg, func(e *game.Engine) bool { return e.Retreat(msg.Player, args.BenchIndex) })
	case "evolve":
		s.run(c, msg, func(e *game.Engine) bool { return e.Evolve(msg.Player, args.HandIndex, args.TargetUID) })
	case "attack":
		s.run(c, msg, func(e *game.Engine) bool { return e.AttackWith(msg.Player, args.Attack) })
	case "promote":
		s.run(c, msg, func(e *game.Engine) bool { return e.PromoteFromBench(msg.Player, args.BenchIndex) })
	case "cpu_turn":
		s.run(c, msg, func(e *game.Engine) bool { return e.CPUTurn() })
	case "autoplay":
		turns := args.Turns
		if turns <= 0 {
			turns = 1
		}
		s.run(c, msg, func(e *game.Engine) bool {
			for i := 0; i < turns && !e.Over(); i++ {
				if !e.CPUTurn() {
					return false
				}
			}
			return true
		})
	default:
		c.trySend(WSMessage{Type: "error", Error: "unknown command " + msg.Type})
	}
}

func (s *Server) createMatch(c *Client, msg WSMessage, args commandPayload) {
	deck0, ok0 := s.decks[args.Deck0]
	deck1, ok1 := s.decks[args.Deck1]
	if !ok0 || !ok1 {
		c.trySend(WSMessage{Type: "error", Error: "unknown deck name"})
		return
	}

	cfg := game.Config{
		DeckSize:     s.cfg.Game.DeckSize,
		HandSize:     s.cfg.Game.HandSize,
		PrizeCount:   s.cfg.Game.PrizeCount,
		MaxMulligans: s.cfg.Game.MaxMulligans,
	}
	sess, err := NewMatchSession(cfg, deck0, deck1, args.Seed, s.logger, s.repo)
	if err != nil {
		c.trySend(WSMessage{Type: "error", Error: err.Error()})
		return
	}

	s.matchesMu.Lock()
	s.matches[sess.ID()] = sess
	s.matchesMu.Unlock()

	c.session = sess
	sess.Attach(c)
	s.logger.Info("match created",
		zap.String("match", sess.ID()),
		zap.Uint32("seed", args.Seed),
		zap.String("deck0", args.Deck0),
		zap.String("deck1", args.Deck1),
	)
	c.trySend(WSMessage{Type: "match_created", MatchID: sess.ID(), Data: sess.State()})
}

func (s *Server) joinMatch(c *Client, msg WSMessage) {
	s.matchesMu.RLock()
	sess := s.matches[msg.MatchID]
	s.matchesMu.RUnlock()
	if sess == nil {
		c.trySend(WSMessage{Type: "error", Error: "match not found"})
		return
	}
	if c.session != nil {
		c.session.Detach(c)
	}
	c.session = sess
	sess.Attach(c)
	c.trySend(WSMessage{Type: "joined", MatchID: sess.ID(), Data: sess.State()})
}

func (s *Server) requireSession(c *Client) *MatchSession {
	if c.session == nil {
		c.trySend(WSMessage{Type: "error", Error: "no match joined"})
		return nil
	}
	return c.session
}

func (s *Server) run(c *Client, msg WSMessage, op func(*game.Engine) bool) {
	sess := s.requireSession(c)
	if sess == nil {
		return
	}
	ok := sess.Do(op)
	c.trySend(WSMessage{Type: "result", MatchID: sess.ID(), OK: &ok})
}
