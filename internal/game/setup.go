package game

import (
	"fmt"

	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Init builds both decks from the shared template pool, shuffles them with
// the seeded RNG, deals opening hands with the mulligan loop, auto-places
// the opening board and sets the prize cards. Player 0 goes first.
//
// Both players draw from the same template pool; deck lists that differ per
// seat go through InitWithDecks.
func (e *Engine) Init(templates []CardTemplate, seed uint32) error {
	return e.InitWithDecks(templates, templates, seed)
}

// InitWithDecks is Init with a distinct template pool per seat.
func (e *Engine) InitWithDecks(deck0, deck1 []CardTemplate, seed uint32) error {
	if e.started {
		return fmt.Errorf("match %s already started", e.matchID)
	}
	if len(deck0) == 0 || len(deck1) == 0 {
		return fmt.Errorf("empty template pool")
	}

	e.rng = NewRNG(seed)
	e.players[0].Deck = e.buildDeck(deck0)
	e.players[1].Deck = e.buildDeck(deck1)
	e.rng.Shuffle(e.players[0].Deck)
	e.rng.Shuffle(e.players[1].Deck)

	e.bus.Emit(rules.EventInit, InitPayload{
		MatchID: e.matchID,
		Seed:    seed,
		Players: [2]ZoneCounts{snapshotZones(e.players[0]), snapshotZones(e.players[1])},
	})

	// Opening hands, with the mulligan loop per seat.
	for p := 0; p < 2; p++ {
		e.dealOpeningHand(p)
	}
	// Each mulligan grants the other player one bonus draw, once per
	// mulligan instance, after both hands have settled.
	for p := 0; p < 2; p++ {
		if n := e.mulligans[1-p]; n > 0 {
			e.Draw(p, n)
		}
	}

	e.phases.TransitionTo(rules.PhaseInitialPokemonSelection)
	for p := 0; p < 2; p++ {
		e.autoPlaceOpeningBoard(p)
	}

	e.phases.TransitionTo(rules.PhasePrizeCardSetup)
	for p := 0; p < 2; p++ {
		e.dealPrizes(p)
		e.bus.Emit(rules.EventSetup, SetupPayload{Player: p, Zones: snapshotZones(e.players[p])})
	}

	e.phases.TransitionTo(rules.PhaseGameStartReady)
	e.started = true
	e.bus.Emit(rules.EventTurn, TurnPayload{Player: e.turns.TurnPlayer(), Turn: 0, Phase: "start"})
	e.logger.Info("match initialized",
		zap.String("match", e.matchID),
		zap.Uint32("seed", seed),
		zap.Int("mulligans_p0", e.mulligans[0]),
		zap.Int("mulligans_p1", e.mulligans[1]),
	)
	return nil
}

// buildDeck cycles through the template pool until the configured deck size
// is reached, cloning each template into a fresh instance.
func (e *Engine) buildDeck(pool []CardTemplate) []*CardInstance {
	deck := make([]*CardInstance, 0, e.cfg.DeckSize)
	for len(deck) < e.cfg.DeckSize {
		for i := range pool {
			deck = append(deck, e.factory.New(&pool[i]))
			if len(deck) >= e.cfg.DeckSize {
				break
			}
		}
	}
	return deck
}

// dealOpeningHand draws the opening hand and runs the mulligan loop: while
// the hand holds no Basic Pokémon, shuffle it back and redraw, up to the
// configured cap. Hitting the cap proceeds with whatever was dealt rather
// than deadlocking.
func (e *Engine) dealOpeningHand(player int) {
	p := e.players[player]
	e.Draw(player, e.cfg.HandSize)

	for !p.hasBasicPokemon() {
		if e.mulligans[player] >= e.cfg.MaxMulligans {
			e.logger.Warn("mulligan cap reached, starting with no Basic Pokemon",
				zap.String("match", e.matchID),
				zap.Int("player", player),
				zap.Int("cap", e.cfg.MaxMulligans),
			)
			return
		}
		e.mulligans[player]++
		p.Deck = append(p.Deck, p.Hand...)
		p.Hand = nil
		e.rng.Shuffle(p.Deck)
		e.Draw(player, e.cfg.HandSize)
		e.bus.Emit(rules.EventMulligan, MulliganPayload{Player: player, Count: e.mulligans[player]})
	}
}

// autoPlaceOpeningBoard puts the first Basic Pokémon in hand into the
// active slot and benches up to two more.
func (e *Engine) autoPlaceOpeningBoard(player int) {
	p := e.players[player]

	for i, c := range p.Hand {
		if c.IsBasicPokemon() {
			e.PlaceActive(player, i)
			break
		}
	}

	benched := 0
	for benched < 2 {
		placed := false
		for i, c := range p.Hand {
			if c.IsBasicPokemon() {
				if e.PlaceBench(player, i, p.EmptyBenchSlot()) {
					benched++
					placed = true
				}
				break
			}
		}
		if !placed {
			break
		}
	}
}

// dealPrizes sets the configured number of prize cards face-down from the
// top of the deck.
func (e *Engine) dealPrizes(player int) {
	p := e.players[player]
	for i := 0; i < e.cfg.PrizeCount && len(p.Deck) > 0; i++ {
		c := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Prizes = append(p.Prizes, c)
	}
}
