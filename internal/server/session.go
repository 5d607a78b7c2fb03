package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ptcgsim/ptcg-server-go/internal/game"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
	"github.com/ptcgsim/ptcg-server-go/internal/repository"
)

// MatchSession wraps one engine behind a mutex. The engine itself is
// single-threaded; the session serializes gateway access to it and fans
// engine events out to connected clients.
type MatchSession struct {
	mu     sync.Mutex
	engine *game.Engine
	seed   uint32

	clientsMu sync.RWMutex
	clients   map[*Client]bool

	logger *zap.Logger
	repo   *repository.MatchRepository
}

// NewMatchSession starts a match from the given template pools.
func NewMatchSession(cfg game.Config, deck0, deck1 []game.CardTemplate, seed uint32, logger *zap.Logger, repo *repository.MatchRepository) (*MatchSession, error) {
	engine := game.New(cfg, logger)
	s := &MatchSession{
		engine:  engine,
		seed:    seed,
		clients: make(map[*Client]bool),
		logger:  logger,
		repo:    repo,
	}

	engine.Subscribe(s.onEvent)
	if err := engine.InitWithDecks(deck0, deck1, seed); err != nil {
		return nil, fmt.Errorf("init match: %w", err)
	}
	return s, nil
}

// ID returns the engine's match id.
func (s *MatchSession) ID() string {
	return s.engine.MatchID()
}

// Attach registers a client for event broadcasts.
func (s *MatchSession) Attach(c *Client) {
	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()
}

// Detach removes a client.
func (s *MatchSession) Detach(c *Client) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}

// State snapshots the match under the session lock.
func (s *MatchSession) State() game.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetState()
}

// Hand snapshots one player's hand under the session lock.
func (s *MatchSession) Hand(player int) []game.CardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetHand(player)
}

// Do runs one engine operation under the session lock, persisting the
// result once the operation ends the match.
func (s *MatchSession) Do(op func(*game.Engine) bool) bool {
	s.mu.Lock()
	wasOver := s.engine.Over()
	ok := op(s.engine)
	ended := !wasOver && s.engine.Over()
	s.mu.Unlock()

	if ended {
		s.persistResult()
	}
	return ok
}

func (s *MatchSession) onEvent(ev rules.Event) {
	msg := WSMessage{
		Type:    "event",
		MatchID: s.engine.MatchID(),
		Event:   string(ev.Type),
		Data:    ev.Payload,
	}
	s.clientsMu.RLock()
	for c := range s.clients {
		c.trySend(msg)
	}
	s.clientsMu.RUnlock()
}

func (s *MatchSession) persistResult() {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := repository.MatchRecord{
		ID:     s.engine.MatchID(),
		Seed:   s.seed,
		Winner: s.engine.Winner(),
		Turns:  s.engine.TurnCounter(),
	}
	for _, ev := range s.engine.Journal() {
		if ev.Type == rules.EventGameOver {
			if payload, ok := ev.Payload.(game.GameOverPayload); ok {
				rec.Reason = payload.Reason
			}
		}
	}
	if err := s.repo.SaveResult(ctx, rec); err != nil {
		s.logger.Error("persist match result", zap.Error(err))
		return
	}
	if err := s.repo.SaveJournal(ctx, rec.ID, s.engine.Journal()); err != nil {
		s.logger.Error("persist match journal", zap.Error(err))
	}
}
