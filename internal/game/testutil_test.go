package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
)

// Fixture templates shared by the engine tests.

func basicMon(id, name string, hp int, attacks ...AttackTemplate) CardTemplate {
	return CardTemplate{
		ID:        id,
		NameEN:    name,
		Supertype: SupertypePokemon,
		Pokemon: &PokemonData{
			Stage:       StageBasic,
			HP:          hp,
			Types:       []energy.Type{energy.Colorless},
			Attacks:     attacks,
			RetreatCost: 1,
		},
	}
}

func stage1Mon(id, name, evolvesFrom string, hp int, attacks ...AttackTemplate) CardTemplate {
	tpl := basicMon(id, name, hp, attacks...)
	tpl.Pokemon.Stage = StageStage1
	tpl.Pokemon.EvolvesFrom = evolvesFrom
	return tpl
}

func basicEnergy(id string, t energy.Type) CardTemplate {
	return CardTemplate{
		ID:        id,
		NameEN:    string(t) + " Energy",
		Supertype: SupertypeEnergy,
		Energy:    &EnergyData{EnergyType: t},
	}
}

func colorlessAttack(name string, damage, cost int) AttackTemplate {
	return AttackTemplate{
		Name:   name,
		Cost:   energy.CostOf(nil, cost),
		Damage: damage,
	}
}

// testPool is the default self-play pool: one species plus the energy to
// power it, alternating through the deck.
func testPool() []CardTemplate {
	return []CardTemplate{
		basicMon("testmon", "TestMon", 100, colorlessAttack("Tackle", 30, 1)),
		basicEnergy("energy-c", energy.Colorless),
	}
}

func newTestEngine(pool []CardTemplate, seed uint32) *Engine {
	e := New(DefaultConfig(), nil)
	if err := e.Init(pool, seed); err != nil {
		panic(err)
	}
	return e
}

// attachFirstEnergy attaches the first energy card in hand to the player's
// active, returning whether an attachment happened.
func attachFirstEnergy(e *Engine, player int) bool {
	for i, c := range e.players[player].Hand {
		if c.IsEnergy() {
			return e.AttachEnergy(player, i, e.players[player].Active.UID)
		}
	}
	return false
}

// advancePastOpeningTurn plays two empty turns so the seat that went first
// is clear of the opening-turn attack lock, leaving player 0 in its second
// main phase.
func advancePastOpeningTurn(e *Engine) {
	e.StartTurn()
	e.EndTurn()
	e.StartTurn()
	e.EndTurn()
	e.StartTurn()
}
