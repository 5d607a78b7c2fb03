package deck

import (
	"testing"

	"github.com/ptcgsim/ptcg-server-go/internal/game"
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
)

func testTemplates() []game.CardTemplate {
	return []game.CardTemplate{
		{
			ID:        "mon-1",
			NameEN:    "Sparkit",
			Supertype: game.SupertypePokemon,
			Pokemon:   &game.PokemonData{Stage: game.StageBasic, HP: 60, Types: []energy.Type{energy.Lightning}},
		},
		{
			ID:        "nrg-1",
			NameEN:    "Lightning Energy",
			Supertype: game.SupertypeEnergy,
			Energy:    &game.EnergyData{EnergyType: energy.Lightning},
		},
	}
}

const deckYAML = `
decks:
  - name: starter
    cards:
      - id: mon-1
        count: 4
      - id: nrg-1
        count: 8
  - name: empty-ref
    cards:
      - id: missing
        count: 2
`

func TestResolveExpandsCounts(t *testing.T) {
	f, err := ParseBytes([]byte(deckYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	idx := NewIndex(testTemplates())

	entry, err := f.ByName("starter")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	pool, err := entry.Resolve(idx)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(pool) != 12 {
		t.Fatalf("expected 12 cards, got %d", len(pool))
	}
	mons := 0
	for _, tpl := range pool {
		if tpl.ID == "mon-1" {
			mons++
		}
	}
	if mons != 4 {
		t.Errorf("expected 4 copies of mon-1, got %d", mons)
	}
}

func TestResolveUnknownCardFails(t *testing.T) {
	f, err := ParseBytes([]byte(deckYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := f.Resolve(NewIndex(testTemplates())); err == nil {
		t.Fatal("expected unknown card id to fail the file")
	}
}

func TestResolveRejectsZeroCount(t *testing.T) {
	entry := Entry{Name: "bad", Cards: []CardCount{{ID: "mon-1", Count: 0}}}
	if _, err := entry.Resolve(NewIndex(testTemplates())); err == nil {
		t.Fatal("expected zero count to fail")
	}
}

func TestByNameMissing(t *testing.T) {
	f := &File{}
	if _, err := f.ByName("nope"); err == nil {
		t.Fatal("expected missing deck to error")
	}
}

func TestParseBadYAML(t *testing.T) {
	if _, err := ParseBytes([]byte("decks: [}")); err == nil {
		t.Fatal("expected YAML error")
	}
}
