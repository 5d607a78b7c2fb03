package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

// giveCard plants a card directly into a player's hand, returning its hand
// index. Test-only shortcut around drawing into a known hand.
func giveCard(e *Engine, player int, tpl *CardTemplate) int {
	c := e.factory.New(tpl)
	e.players[player].Hand = append(e.players[player].Hand, c)
	return len(e.players[player].Hand) - 1
}

// mustAttachEnergy attaches an energy card to the player's active, planting
// one in hand first when the dealt hand happens to hold none.
func mustAttachEnergy(t *testing.T, e *Engine, player int) {
	t.Helper()
	idx := -1
	for i, c := range e.players[player].Hand {
		if c.IsEnergy() {
			idx = i
			break
		}
	}
	if idx < 0 {
		tpl := basicEnergy("energy-c", energy.Colorless)
		idx = giveCard(e, player, &tpl)
	}
	require.True(t, e.AttachEnergy(player, idx, e.players[player].Active.UID))
}

func TestInitDealsBoard(t *testing.T) {
	e := newTestEngine(testPool(), 1337)

	assert.Equal(t, rules.PhaseGameStartReady, e.Phase())
	assert.Equal(t, 0, e.TurnPlayer())
	assert.Equal(t, 0, e.TurnCounter())
	assert.False(t, e.Over())
	assert.Equal(t, -1, e.Winner())

	for p := 0; p < 2; p++ {
		state := e.players[p]
		require.NotNil(t, state.Active, "player %d has no active", p)
		assert.True(t, state.Active.IsBasicPokemon())
		assert.Len(t, state.Prizes, 6, "player %d", p)
		assert.Equal(t, 60, state.TotalCards(), "player %d conservation", p)
	}
}

func TestInitIsDeterministic(t *testing.T) {
	a := newTestEngine(testPool(), 424242)
	b := newTestEngine(testPool(), 424242)

	ha := a.GetHand(0)
	hb := b.GetHand(0)
	require.Equal(t, len(ha), len(hb))
	for i := range ha {
		assert.Equal(t, ha[i].ID, hb[i].ID, "hand diverged at %d", i)
	}
}

func TestBasicAttack(t *testing.T) {
	e := newTestEngine(testPool(), 1337)
	advancePastOpeningTurn(e)
	require.Equal(t, 0, e.TurnPlayer())

	mustAttachEnergy(t, e, 0)
	require.True(t, e.Attack(0))

	defender := e.players[1].Active
	require.NotNil(t, defender)
	assert.Equal(t, 30, defender.Damage)
	assert.False(t, defender.KnockedOut())

	attacks := e.journal.OfType(rules.EventAttack)
	require.Len(t, attacks, 1)
	payload := attacks[0].Payload.(AttackPayload)
	assert.Equal(t, 0, payload.Player)
	assert.Equal(t, "Tackle", payload.AttackName)
	assert.Equal(t, 30, payload.Damage)

	require.Len(t, e.journal.OfType(rules.EventDamage), 1)
	assert.Empty(t, e.journal.OfType(rules.EventKO))

	// ATTACK is announced before the damage lands.
	var order []rules.EventType
	for _, ev := range e.Journal() {
		if ev.Type == rules.EventAttack || ev.Type == rules.EventDamage {
			order = append(order, ev.Type)
		}
	}
	assert.Equal(t, []rules.EventType{rules.EventAttack, rules.EventDamage}, order)
}

func TestAttackWithoutEnergyBlocked(t *testing.T) {
	e := newTestEngine(testPool(), 1)
	advancePastOpeningTurn(e)

	require.False(t, e.Attack(0))

	blocked := e.journal.OfType(rules.EventAttackBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, rules.ReasonNoEnergy, blocked[0].Payload.(BlockedPayload).Reason)
	assert.Equal(t, 0, e.players[1].Active.Damage)
}

func TestOpeningAttackBlocked(t *testing.T) {
	e := newTestEngine(testPool(), 7)
	e.StartTurn()
	mustAttachEnergy(t, e, 0)

	require.False(t, e.Attack(0))
	blocked := e.journal.OfType(rules.EventAttackBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, rules.ReasonFirstTurn, blocked[0].Payload.(BlockedPayload).Reason)

	// The seat going second is not under the opening lock.
	e.EndTurn()
	e.StartTurn()
	mustAttachEnergy(t, e, 1)
	assert.True(t, e.Attack(1))
	assert.Equal(t, 30, e.players[0].Active.Damage)
}

func TestKnockoutTakesPrize(t *testing.T) {
	strong := testPool()
	weak := []CardTemplate{
		basicMon("weakmon", "WeakMon", 30, colorlessAttack("Flail", 10, 1)),
		basicEnergy("energy-c", energy.Colorless),
	}
	e := New(DefaultConfig(), nil)
	require.NoError(t, e.InitWithDecks(strong, weak, 2024))
	advancePastOpeningTurn(e)

	mustAttachEnergy(t, e, 0)
	total0 := e.players[0].TotalCards()
	total1 := e.players[1].TotalCards()
	require.True(t, e.Attack(0))

	assert.Nil(t, e.players[1].Active, "knocked out active must leave play")
	assert.Len(t, e.players[0].Prizes, 5)
	assert.Equal(t, rules.PhaseAwaitingNewActive, e.Phase())
	assert.False(t, e.Over())

	kos := e.journal.OfType(rules.EventKO)
	require.Len(t, kos, 1)
	assert.Equal(t, 1, kos[0].Payload.(KOPayload).Player)

	prizes := e.journal.OfType(rules.EventPrize)
	require.Len(t, prizes, 1)
	payload := prizes[0].Payload.(PrizePayload)
	assert.Equal(t, 0, payload.Player)
	assert.Equal(t, 5, payload.Remaining)

	// Conservation holds through the knockout.
	assert.Equal(t, total0, e.players[0].TotalCards())
	assert.Equal(t, total1, e.players[1].TotalCards())

	// Promotion refills the slot and resumes the turn player's main phase.
	slot := -1
	for i, c := range e.players[1].Bench {
		if c != nil {
			slot = i
			break
		}
	}
	require.GreaterOrEqual(t, slot, 0, "no bench Pokemon to promote")
	require.True(t, e.PromoteFromBench(1, slot))
	assert.NotNil(t, e.players[1].Active)
	assert.Equal(t, rules.PhasePlayerMain, e.Phase())
}

func TestKnockoutParksTurnSequenceUntilPromotion(t *testing.T) {
	weak := []CardTemplate{
		basicMon("weakmon", "WeakMon", 30, colorlessAttack("Flail", 10, 1)),
		basicEnergy("energy-c", energy.Colorless),
	}
	e := New(DefaultConfig(), nil)
	require.NoError(t, e.InitWithDecks(testPool(), weak, 2024))
	advancePastOpeningTurn(e)

	mustAttachEnergy(t, e, 0)
	require.True(t, e.Attack(0))
	require.Equal(t, rules.PhaseAwaitingNewActive, e.Phase())

	// With the defender's active slot empty, no draw phase may begin and
	// the turn cannot be handed over.
	drawsBefore := len(e.journal.OfType(rules.EventDraw))
	assert.False(t, e.EndTurn())
	assert.False(t, e.StartTurn())
	assert.False(t, e.CPUTurn())
	assert.Equal(t, rules.PhaseAwaitingNewActive, e.Phase())
	assert.Len(t, e.journal.OfType(rules.EventDraw), drawsBefore)
	assert.Nil(t, e.players[1].Active)

	slot := -1
	for i, c := range e.players[1].Bench {
		if c != nil {
			slot = i
			break
		}
	}
	require.GreaterOrEqual(t, slot, 0, "no bench Pokemon to promote")
	require.True(t, e.PromoteFromBench(1, slot))
	require.True(t, e.EndTurn())
	assert.Equal(t, rules.PhaseCPUDraw, e.Phase())
}

func TestDamageAccumulatesAcrossTurnsUntilKnockout(t *testing.T) {
	e := newTestEngine(testPool(), 311)
	advancePastOpeningTurn(e)
	mustAttachEnergy(t, e, 0)

	require.Equal(t, 100, e.players[1].Active.HP())

	for hit := 1; hit <= 3; hit++ {
		require.True(t, e.Attack(0))
		assert.Equal(t, 30*hit, e.players[1].Active.Damage)
		assert.Empty(t, e.journal.OfType(rules.EventKO),
			"no knockout before cumulative damage reaches hp")
		e.EndTurn()
		e.StartTurn()
		e.EndTurn()
		e.StartTurn()
	}

	// The fourth hit takes cumulative damage to 120, past the 100 hp.
	require.True(t, e.Attack(0))

	kos := e.journal.OfType(rules.EventKO)
	require.Len(t, kos, 1)
	assert.Equal(t, 1, kos[0].Payload.(KOPayload).Player)
	prizes := e.journal.OfType(rules.EventPrize)
	require.Len(t, prizes, 1)
	assert.Equal(t, 5, prizes[0].Payload.(PrizePayload).Remaining)
	assert.Nil(t, e.players[1].Active)
	assert.Equal(t, rules.PhaseAwaitingNewActive, e.Phase())
}

func TestLastPrizeWinsMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrizeCount = 1
	weak := []CardTemplate{
		basicMon("weakmon", "WeakMon", 30, colorlessAttack("Flail", 10, 1)),
		basicEnergy("energy-c", energy.Colorless),
	}
	e := New(cfg, nil)
	require.NoError(t, e.InitWithDecks(testPool(), weak, 9))
	advancePastOpeningTurn(e)

	mustAttachEnergy(t, e, 0)
	require.True(t, e.Attack(0))

	assert.True(t, e.Over())
	assert.Equal(t, 0, e.Winner())
	assert.Equal(t, rules.PhaseGameOver, e.Phase())

	overs := e.journal.OfType(rules.EventGameOver)
	require.Len(t, overs, 1)
	payload := overs[0].Payload.(GameOverPayload)
	assert.Equal(t, 0, payload.Winner)
	assert.Equal(t, "prizes", payload.Reason)

	// Operations on a finished match are inert.
	assert.False(t, e.Attack(0))
	assert.False(t, e.StartTurn())
	assert.False(t, e.EndTurn())
}

func TestWeaknessDoublesAndResistanceReduces(t *testing.T) {
	attacker := basicMon("atk", "Attacker", 100, colorlessAttack("Slam", 40, 1))
	attacker.Pokemon.Types = []energy.Type{energy.Fire}

	weakTo := basicMon("weak", "WeakToFire", 120)
	weakTo.Pokemon.Weakness = &TypeModifier{Type: energy.Fire}

	resists := basicMon("res", "ResistsFire", 120)
	resists.Pokemon.Resistance = &TypeModifier{Type: energy.Fire}

	hardResists := basicMon("hres", "HardResist", 120)
	hardResists.Pokemon.Resistance = &TypeModifier{Type: energy.Fire}

	e := New(DefaultConfig(), nil)
	var factory instanceFactory
	a := factory.New(&attacker)

	atk := a.AttackAt(0)
	assert.Equal(t, 80, e.computeDamage(atk, a, factory.New(&weakTo)))
	assert.Equal(t, 10, e.computeDamage(atk, a, factory.New(&resists)))

	weakAtk := Attack{Name: "Tap", Damage: 20}
	assert.Equal(t, 0, e.computeDamage(weakAtk, a, factory.New(&hardResists)),
		"resistance floors at zero")
}

func TestEnergyAttachOncePerTurn(t *testing.T) {
	e := newTestEngine(testPool(), 77)
	e.StartTurn()

	mustAttachEnergy(t, e, 0)
	assert.False(t, attachFirstEnergy(e, 0), "second attachment same turn")

	// The restriction lifts on the player's next turn.
	e.EndTurn()
	e.StartTurn()
	e.EndTurn()
	e.StartTurn()
	mustAttachEnergy(t, e, 0)

	total := 0
	for _, n := range e.players[0].Active.Attached {
		total += n
	}
	assert.Equal(t, 2, total)
}

func TestRetreatSpendsLexicographically(t *testing.T) {
	e := newTestEngine(testPool(), 5)
	e.StartTurn()

	active := e.players[0].Active
	active.Attached.Add(energy.Water, 1)
	active.Attached.Add(energy.Fire, 1)

	slot := -1
	for i, c := range e.players[0].Bench {
		if c != nil {
			slot = i
			break
		}
	}
	require.GreaterOrEqual(t, slot, 0)
	incoming := e.players[0].Bench[slot]

	require.True(t, e.Retreat(0, slot))
	assert.Same(t, incoming, e.players[0].Active)
	assert.Same(t, active, e.players[0].Bench[slot])

	// FIRE sorts before WATER, so the single-cost retreat burns the fire.
	assert.Equal(t, 0, active.Attached.Get(energy.Fire))
	assert.Equal(t, 1, active.Attached.Get(energy.Water))

	retreats := e.journal.OfType(rules.EventRetreat)
	require.Len(t, retreats, 1)
	assert.Equal(t, map[string]int{"FIRE": 1}, retreats[0].Payload.(RetreatPayload).Spent)
}

func TestRetreatRejectedWithoutEnergy(t *testing.T) {
	e := newTestEngine(testPool(), 5)
	e.StartTurn()

	slot := -1
	for i, c := range e.players[0].Bench {
		if c != nil {
			slot = i
		}
	}
	require.GreaterOrEqual(t, slot, 0)

	active := e.players[0].Active
	require.False(t, e.Retreat(0, slot), "retreat cost 1 with nothing attached")
	assert.Same(t, active, e.players[0].Active, "no partial effect on rejection")
	assert.False(t, e.turns.Flags(0).RetreatedThisTurn)
}

func TestRetreatOncePerTurn(t *testing.T) {
	e := newTestEngine(testPool(), 5)
	e.StartTurn()

	active := e.players[0].Active
	active.Attached.Add(energy.Colorless, 2)
	slot := -1
	for i, c := range e.players[0].Bench {
		if c != nil {
			slot = i
			break
		}
	}
	require.GreaterOrEqual(t, slot, 0)

	require.True(t, e.Retreat(0, slot))
	e.players[0].Active.Attached.Add(energy.Colorless, 2)
	assert.False(t, e.Retreat(0, slot), "one retreat per turn")
}

func TestEvolveInheritsBoardState(t *testing.T) {
	stage1 := stage1Mon("testmon-1", "TestMon EX", "TestMon", 140,
		colorlessAttack("Mega Tackle", 60, 2))

	e := newTestEngine(testPool(), 31)
	advancePastOpeningTurn(e)

	active := e.players[0].Active
	active.Damage = 20
	active.Attached.Add(energy.Colorless, 2)

	idx := giveCard(e, 0, &stage1)
	require.True(t, e.Evolve(0, idx, active.UID))

	evolved := e.players[0].Active
	require.NotNil(t, evolved)
	assert.Equal(t, "TestMon EX", evolved.Name())
	assert.Equal(t, 20, evolved.Damage)
	assert.Equal(t, 2, evolved.Attached.Get(energy.Colorless))
	assert.Equal(t, active.TurnPlayed, evolved.TurnPlayed)
	assert.Contains(t, e.players[0].Discard, active, "previous stage goes to discard")

	evolves := e.journal.OfType(rules.EventEvolve)
	require.Len(t, evolves, 1)
	assert.Equal(t, ZoneActive, evolves[0].Payload.(EvolvePayload).Slot)
}

func TestEvolveBlockedOnOpeningTurn(t *testing.T) {
	stage1 := stage1Mon("testmon-1", "TestMon EX", "TestMon", 140)

	e := newTestEngine(testPool(), 31)
	e.StartTurn()

	idx := giveCard(e, 0, &stage1)
	require.False(t, e.Evolve(0, idx, e.players[0].Active.UID))

	blocked := e.journal.OfType(rules.EventEvolveBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, rules.ReasonFirstTurn, blocked[0].Payload.(BlockedPayload).Reason)
}

func TestEvolveBlockedSameTurn(t *testing.T) {
	stage1 := stage1Mon("testmon-1", "TestMon EX", "TestMon", 140)

	e := newTestEngine(testPool(), 31)
	advancePastOpeningTurn(e)

	// Play a fresh Basic this turn, then try to evolve it immediately.
	basic := basicMon("testmon", "TestMon", 100)
	idx := giveCard(e, 0, &basic)
	slot := e.players[0].EmptyBenchSlot()
	require.GreaterOrEqual(t, slot, 0)
	require.True(t, e.PlaceBench(0, idx, slot))
	fresh := e.players[0].Bench[slot]

	evoIdx := giveCard(e, 0, &stage1)
	require.False(t, e.Evolve(0, evoIdx, fresh.UID))

	blocked := e.journal.OfType(rules.EventEvolveBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, rules.ReasonSameTurn, blocked[0].Payload.(BlockedPayload).Reason)
}

func TestEvolveBlockedOnSpeciesMismatch(t *testing.T) {
	wrong := stage1Mon("other-1", "OtherMon EX", "OtherMon", 120)

	e := newTestEngine(testPool(), 31)
	advancePastOpeningTurn(e)

	idx := giveCard(e, 0, &wrong)
	require.False(t, e.Evolve(0, idx, e.players[0].Active.UID))

	blocked := e.journal.OfType(rules.EventEvolveBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, rules.ReasonNotMatch, blocked[0].Payload.(BlockedPayload).Reason)
}

func TestDrawFromEmptyDeckEmitsDeckOut(t *testing.T) {
	e := newTestEngine(testPool(), 3)
	e.players[0].Deck = nil

	assert.Equal(t, 0, e.Draw(0, 2))
	assert.Len(t, e.journal.OfType(rules.EventDeckOut), 2)
}

func TestMoveBetweenZones(t *testing.T) {
	e := newTestEngine(testPool(), 12)
	p := e.players[0]
	before := p.TotalCards()

	card := p.Hand[0]
	require.True(t, e.Move(0, ZoneHand, ZoneDiscard, card.UID))
	assert.Contains(t, p.Discard, card)
	assert.Equal(t, before, p.TotalCards())

	// A blocked destination puts the card back where it came from.
	benched := p.Hand[0]
	require.NotNil(t, p.Active)
	assert.False(t, e.Move(0, ZoneHand, ZoneActive, benched.UID))
	assert.GreaterOrEqual(t, p.HandIndexOf(benched.UID), 0)
	assert.Equal(t, before, p.TotalCards())
}

func TestConservationAcrossFullTurns(t *testing.T) {
	e := newTestEngine(testPool(), 808)
	for turn := 0; turn < 10 && !e.Over(); turn++ {
		e.StartTurn()
		player := e.TurnPlayer()
		attachFirstEnergy(e, player)
		e.Attack(player)
		if !e.Over() {
			e.EndTurn()
		}
		assert.Equal(t, 60, e.players[0].TotalCards(), "turn %d", turn)
		assert.Equal(t, 60, e.players[1].TotalCards(), "turn %d", turn)
	}
}

func TestStateViewIsDetached(t *testing.T) {
	e := newTestEngine(testPool(), 64)
	view := e.GetState()

	require.NotNil(t, view.Players[0].Active)
	view.Players[0].Active.Damage = 999

	assert.Equal(t, 0, e.players[0].Active.Damage, "mutating a snapshot must not touch the engine")
	assert.Equal(t, e.MatchID(), view.MatchID)
}

func TestStartTurnDrawsBeforeMain(t *testing.T) {
	e := newTestEngine(testPool(), 21)
	handBefore := len(e.players[0].Hand)

	require.True(t, e.StartTurn())
	assert.Equal(t, handBefore+1, len(e.players[0].Hand))
	assert.Equal(t, rules.PhasePlayerMain, e.Phase())
	assert.True(t, e.turns.Flags(0).DrawnThisTurn)
}
