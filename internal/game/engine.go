package game

import (
	"github.com/google/uuid"
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Config carries the tunable match parameters.
type Config struct {
	DeckSize     int
	HandSize     int
	PrizeCount   int
	MaxMulligans int
}

// DefaultConfig returns the standard two-player match parameters.
func DefaultConfig() Config {
	return Config{
		DeckSize:     60,
		HandSize:     7,
		PrizeCount:   6,
		MaxMulligans: 5,
	}
}

// Engine is a single match of the card game. It owns all match state
// (zones, RNG, turn and phase tracking) and announces every state change on
// its event bus. One Engine is one match; nothing is shared between
// instances, so matches can run side by side.
//
// The engine is single-threaded and fully synchronous: every operation runs
// to completion before returning, either fully applied or fully rejected.
// Rule violations are communicated through boolean results and *_BLOCKED
// events, never through errors.
type Engine struct {
	cfg     Config
	logger  *zap.Logger
	matchID string

	rng     *RNG
	bus     *rules.EventBus
	phases  *rules.PhaseManager
	turns   *rules.TurnManager
	factory instanceFactory
	journal *Journal

	players   [2]*PlayerState
	mulligans [2]int

	started bool
	over    bool
	winner  int
}

// New creates an engine for a single match. The logger may be nil.
func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		matchID: uuid.New().String(),
		bus:     rules.NewEventBus(),
		phases:  rules.NewPhaseManager(),
		turns:   rules.NewTurnManager(0),
		winner:  -1,
	}
	e.players[0] = NewPlayerState()
	e.players[1] = NewPlayerState()

	// The journal is the first subscriber so it observes the full stream.
	e.journal = newJournal(e.bus)

	// A seat may not enter its main phase before the turn's mandatory draw.
	e.phases.AddGuard(func(from, to rules.Phase) bool {
		if to.IsMain() && from.IsDraw() {
			return e.turns.Flags(e.turns.TurnPlayer()).DrawnThisTurn
		}
		return true
	})

	return e
}

// MatchID returns the unique identifier of this match.
func (e *Engine) MatchID() string {
	return e.matchID
}

// Subscribe registers an event listener; see rules.EventBus.
func (e *Engine) Subscribe(listener rules.Listener) int {
	return e.bus.Subscribe(listener)
}

// SubscribeTyped registers a listener for one event type.
func (e *Engine) SubscribeTyped(t rules.EventType, listener rules.Listener) int {
	return e.bus.SubscribeTyped(t, listener)
}

// Unsubscribe removes a listener by handle.
func (e *Engine) Unsubscribe(handle int) {
	e.bus.Unsubscribe(handle)
}

// Journal returns the ordered record of every event emitted so far.
func (e *Engine) Journal() []rules.Event {
	return e.journal.Events()
}

// Phase returns the current match phase.
func (e *Engine) Phase() rules.Phase {
	return e.phases.Current()
}

// TurnPlayer returns the seat whose turn it is.
func (e *Engine) TurnPlayer() int {
	return e.turns.TurnPlayer()
}

// TurnCounter returns the global 0-based turn counter.
func (e *Engine) TurnCounter() int {
	return e.turns.Counter()
}

// Over reports whether the match has ended.
func (e *Engine) Over() bool {
	return e.over
}

// Winner returns the winning seat, -1 while the match is live.
func (e *Engine) Winner() int {
	return e.winner
}

// MulliganCount returns how many times the seat mulliganed during setup.
func (e *Engine) MulliganCount(player int) int {
	return e.mulligans[player]
}

// GetState returns a read-only snapshot of the match.
func (e *Engine) GetState() StateView {
	view := StateView{
		MatchID:    e.matchID,
		Turn:       e.turns.Counter(),
		TurnPlayer: e.turns.TurnPlayer(),
		Phase:      e.phases.Current().String(),
		Over:       e.over,
		Winner:     e.winner,
	}
	view.Players[0] = snapshotPlayer(e.players[0])
	view.Players[1] = snapshotPlayer(e.players[1])
	return view
}

// GetHand returns a snapshot of a player's hand.
func (e *Engine) GetHand(player int) []CardView {
	if !validSeat(player) {
		return nil
	}
	hand := make([]CardView, 0, len(e.players[player].Hand))
	for _, c := range e.players[player].Hand {
		hand = append(hand, *snapshotCard(c))
	}
	return hand
}

func validSeat(player int) bool {
	return player == 0 || player == 1
}

// Draw moves up to n cards from the top of the deck to the hand, emitting a
// DRAW per card and a DECK_OUT per card that could not be drawn. Returns the
// number actually drawn.
func (e *Engine) Draw(player, n int) int {
	if !validSeat(player) {
		return 0
	}
	p := e.players[player]
	drawn := 0
	for i := 0; i < n; i++ {
		if len(p.Deck) == 0 {
			e.bus.Emit(rules.EventDeckOut, DeckOutPayload{Player: player})
			e.logger.Warn("deck out on draw", zap.Int("player", player))
			continue
		}
		c := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, c)
		drawn++
		e.bus.Emit(rules.EventDraw, DrawPayload{Player: player, Card: snapshotCard(c), Zones: snapshotZones(p)})
	}
	return drawn
}

// PlaceActive plays a Basic Pokémon from the hand to an empty active slot.
func (e *Engine) PlaceActive(player, handIndex int) bool {
	if !validSeat(player) {
		return false
	}
	p := e.players[player]
	if p.Active != nil || handIndex < 0 || handIndex >= len(p.Hand) {
		return false
	}
	if !p.Hand[handIndex].IsBasicPokemon() {
		return false
	}
	c := p.removeFromHand(handIndex)
	p.Active = c
	c.TurnPlayed = e.turns.Counter()
	e.bus.Emit(rules.EventActive, PlacePayload{Player: player, Card: snapshotCard(c), Zones: snapshotZones(p)})
	return true
}

// PlaceBench plays a Basic Pokémon from the hand to an empty bench slot.
func (e *Engine) PlaceBench(player, handIndex, benchIndex int) bool {
	if !validSeat(player) {
		return false
	}
	p := e.players[player]
	if benchIndex < 0 || benchIndex >= BenchSize || p.Bench[benchIndex] != nil {
		return false
	}
	if handIndex < 0 || handIndex >= len(p.Hand) || !p.Hand[handIndex].IsBasicPokemon() {
		return false
	}
	c := p.removeFromHand(handIndex)
	p.Bench[benchIndex] = c
	c.TurnPlayed = e.turns.Counter()
	e.bus.Emit(rules.EventBench, PlacePayload{Player: player, Card: snapshotCard(c), Index: benchIndex, Zones: snapshotZones(p)})
	return true
}

// AttachEnergy attaches an Energy card from the hand to an in-play target.
// At most one attachment per player per turn; the energy card itself is
// consumed into the discard. Silent no-op on any precondition failure.
func (e *Engine) AttachEnergy(player, handIndex, targetUID int) bool {
	if !validSeat(player) || e.over {
		return false
	}
	p := e.players[player]
	if e.turns.Flags(player).EnergyAttachedThisTurn {
		return false
	}
	if handIndex < 0 || handIndex >= len(p.Hand) || !p.Hand[handIndex].IsEnergy() {
		return false
	}
	target := p.FindByUID(targetUID)
	if target == nil {
		target = p.Active
	}
	if target == nil || !target.IsPokemon() {
		return false
	}

	c := p.removeFromHand(handIndex)
	t := c.Template.Energy.EnergyType
	target.Attached.Add(t, 1)
	p.Discard = append(p.Discard, c)
	e.turns.Flags(player).EnergyAttachedThisTurn = true

	view := snapshotCard(target)
	e.bus.Emit(rules.EventAttachEnergy, AttachPayload{
		Player:     player,
		Target:     view,
		EnergyType: string(t),
		Attached:   view.Attached,
	})
	return true
}

// Retreat swaps the active Pokémon with the chosen bench slot, paying the
// active's retreat cost from its attached energy. At most once per turn.
// Rejected with no partial payment when the attached energy cannot cover
// the cost.
func (e *Engine) Retreat(player, benchIndex int) bool {
	if !validSeat(player) || e.over {
		return false
	}
	p := e.players[player]
	if e.turns.Flags(player).RetreatedThisTurn {
		return false
	}
	active := p.Active
	if active == nil || benchIndex < 0 || benchIndex >= BenchSize || p.Bench[benchIndex] == nil {
		return false
	}

	cost := active.Template.Pokemon.RetreatCost
	spent, ok := energy.SpendForRetreat(active.Attached, cost)
	if !ok {
		return false
	}

	incoming := p.Bench[benchIndex]
	p.Bench[benchIndex] = active
	p.Active = incoming
	e.turns.Flags(player).RetreatedThisTurn = true

	spentView := make(map[string]int, len(spent))
	for t, n := range spent {
		spentView[string(t)] = n
	}
	e.bus.Emit(rules.EventRetreat, RetreatPayload{
		Player: player,
		From:   snapshotCard(p.Bench[benchIndex]),
		To:     snapshotCard(p.Active),
		Spent:  spentView,
	})
	return true
}

// Evolve plays an evolution card from the hand onto a matching in-play
// Pokémon. The new instance inherits damage, attached energy and the
// original turn-played marker; the previous stage goes to the discard.
func (e *Engine) Evolve(player, handIndex, targetUID int) bool {
	if !validSeat(player) || e.over {
		return false
	}
	p := e.players[player]
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return false
	}
	evo := p.Hand[handIndex]
	if !evo.IsPokemon() || evo.Template.Pokemon.Stage == StageBasic {
		return false
	}
	if e.turns.IsOpeningTurn(player) {
		e.bus.Emit(rules.EventEvolveBlocked, BlockedPayload{Player: player, Reason: rules.ReasonFirstTurn})
		return false
	}

	base := p.FindByUID(targetUID)
	if base == nil {
		base = p.Active
	}
	if base == nil || !base.IsPokemon() {
		return false
	}
	if base.TurnPlayed >= e.turns.Counter() {
		e.bus.Emit(rules.EventEvolveBlocked, BlockedPayload{Player: player, Reason: rules.ReasonSameTurn})
		return false
	}
	if from := evo.Template.Pokemon.EvolvesFrom; from != "" && from != base.Name() {
		e.bus.Emit(rules.EventEvolveBlocked, BlockedPayload{Player: player, Reason: rules.ReasonNotMatch})
		return false
	}

	slot := ZoneActive
	benchIndex := -1
	if base != p.Active {
		benchIndex = p.BenchIndexOf(base)
		if benchIndex < 0 {
			// Target is findable but not in play (hand, deck, discard).
			return false
		}
		slot = ZoneBench
	}

	p.removeFromHand(handIndex)
	evo.Damage = base.Damage
	evo.Attached = base.Attached.Clone()
	evo.Conditions = make(map[SpecialCondition]bool)
	evo.TurnPlayed = base.TurnPlayed

	p.Discard = append(p.Discard, base)
	if slot == ZoneActive {
		p.Active = evo
	} else {
		p.Bench[benchIndex] = evo
	}

	e.bus.Emit(rules.EventEvolve, EvolvePayload{
		Player: player,
		From:   snapshotCard(base),
		To:     snapshotCard(evo),
		Slot:   slot,
		Index:  benchIndex,
	})
	return true
}

// Move performs a generic zone transfer of the card with the given uid.
// Cards entering play record the current turn counter.
func (e *Engine) Move(player int, from, to Zone, uid int) bool {
	if !validSeat(player) {
		return false
	}
	p := e.players[player]
	c := e.removeFromZone(p, from, uid)
	if c == nil {
		return false
	}
	if !e.placeInZone(p, to, c) {
		// Put the card back where it came from rather than losing it.
		e.placeInZone(p, from, c)
		return false
	}
	if to == ZoneActive || to == ZoneBench {
		c.TurnPlayed = e.turns.Counter()
	}
	e.bus.Emit(rules.EventMove, MovePayload{Player: player, From: from, To: to, Card: snapshotCard(c), Zones: snapshotZones(p)})
	return true
}

func (e *Engine) removeFromZone(p *PlayerState, zone Zone, uid int) *CardInstance {
	switch zone {
	case ZoneActive:
		if p.Active != nil && p.Active.UID == uid {
			c := p.Active
			p.Active = nil
			return c
		}
	case ZoneBench:
		for i, c := range p.Bench {
			if c != nil && c.UID == uid {
				p.Bench[i] = nil
				return c
			}
		}
	case ZoneHand:
		if i := p.HandIndexOf(uid); i >= 0 {
			return p.removeFromHand(i)
		}
	case ZoneDeck:
		for i, c := range p.Deck {
			if c.UID == uid {
				p.Deck = append(p.Deck[:i], p.Deck[i+1:]...)
				return c
			}
		}
	case ZoneDiscard:
		for i, c := range p.Discard {
			if c.UID == uid {
				p.Discard = append(p.Discard[:i], p.Discard[i+1:]...)
				return c
			}
		}
	case ZonePrize:
		for i, c := range p.Prizes {
			if c.UID == uid {
				p.Prizes = append(p.Prizes[:i], p.Prizes[i+1:]...)
				return c
			}
		}
	}
	return nil
}

func (e *Engine) placeInZone(p *PlayerState, zone Zone, c *CardInstance) bool {
	switch zone {
	case ZoneActive:
		if p.Active != nil {
			return false
		}
		p.Active = c
	case ZoneBench:
		slot := p.EmptyBenchSlot()
		if slot < 0 {
			return false
		}
		p.Bench[slot] = c
	case ZoneHand:
		p.Hand = append(p.Hand, c)
	case ZoneDeck:
		p.Deck = append(p.Deck, c)
	case ZoneDiscard:
		p.Discard = append(p.Discard, c)
	case ZonePrize:
		p.Prizes = append(p.Prizes, c)
	default:
		return false
	}
	return true
}

// PromoteFromBench fills an empty active slot from the chosen bench slot.
// This is the follow-up a knockout demands before the owner may act again.
func (e *Engine) PromoteFromBench(player, benchIndex int) bool {
	if !validSeat(player) {
		return false
	}
	p := e.players[player]
	if p.Active != nil || benchIndex < 0 || benchIndex >= BenchSize || p.Bench[benchIndex] == nil {
		return false
	}
	c := p.Bench[benchIndex]
	p.Bench[benchIndex] = nil
	p.Active = c
	e.bus.Emit(rules.EventPromote, PromotePayload{Player: player, Card: snapshotCard(c), Index: benchIndex})

	if e.phases.Current() == rules.PhaseAwaitingNewActive {
		e.resumeAfterPromotion()
	}
	return true
}

// resumeAfterPromotion returns the phase machine to the main loop once an
// empty active slot has been refilled.
func (e *Engine) resumeAfterPromotion() {
	if e.turns.TurnPlayer() == 0 {
		e.phases.TransitionTo(rules.PhasePlayerMain)
	} else {
		e.phases.TransitionTo(rules.PhaseCPUMain)
	}
}

// StartTurn begins the turn player's turn: flags reset, special-condition
// upkeep, then the mandatory draw, then the main phase. Rejected while a
// knockout leaves an active slot waiting on a promotion.
func (e *Engine) StartTurn() bool {
	if !e.started || e.over {
		return false
	}
	if e.phases.Current() == rules.PhaseAwaitingNewActive {
		return false
	}
	player := e.turns.TurnPlayer()
	e.turns.StartTurn()

	drawPhase := rules.PhasePlayerDraw
	mainPhase := rules.PhasePlayerMain
	if player == 1 {
		drawPhase = rules.PhaseCPUDraw
		mainPhase = rules.PhaseCPUMain
	}
	e.phases.TransitionTo(drawPhase)

	e.applySpecialConditions(player)

	e.Draw(player, 1)
	e.turns.Flags(player).DrawnThisTurn = true
	e.phases.TransitionTo(mainPhase)

	e.bus.Emit(rules.EventTurn, TurnPayload{Player: player, Turn: e.turns.Counter(), Phase: "main"})
	e.logger.Debug("turn started",
		zap.String("match", e.matchID),
		zap.Int("player", player),
		zap.Int("turn", e.turns.Counter()),
	)
	return true
}

// EndTurn hands the turn to the other seat. Rejected until an empty active
// slot left by a knockout has been refilled.
func (e *Engine) EndTurn() bool {
	if !e.started || e.over {
		return false
	}
	if e.phases.Current() == rules.PhaseAwaitingNewActive {
		return false
	}
	prev := e.turns.TurnPlayer()
	e.turns.EndTurn()
	next := e.turns.TurnPlayer()

	if next == 0 {
		e.phases.TransitionTo(rules.PhasePlayerDraw)
	} else {
		e.phases.TransitionTo(rules.PhaseCPUDraw)
	}

	e.bus.Emit(rules.EventTurn, TurnPayload{Player: next, Turn: e.turns.Counter(), Phase: "start"})
	e.logger.Debug("turn ended",
		zap.String("match", e.matchID),
		zap.Int("player", prev),
		zap.Int("turn", e.turns.Counter()),
	)
	return true
}

// endMatch finishes the game with the given winner.
func (e *Engine) endMatch(winner int, reason string) {
	e.over = true
	e.winner = winner
	e.started = false
	e.phases.Force(rules.PhaseGameOver)
	e.bus.Emit(rules.EventGameOver, GameOverPayload{Winner: winner, Reason: reason})
	e.logger.Info("match over",
		zap.String("match", e.matchID),
		zap.Int("winner", winner),
		zap.String("reason", reason),
	)
}
