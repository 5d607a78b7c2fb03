// Command ptcg-cli runs a seeded CPU-versus-CPU match in the terminal and
// prints the event stream as it happens.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/ptcgsim/ptcg-server-go/internal/deck"
	"github.com/ptcgsim/ptcg-server-go/internal/game"
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

var (
	cardsPath = flag.String("cards", "", "path to the master card list (JSON)")
	decksPath = flag.String("decks", "", "path to the deck-list file (YAML)")
	deck0Name = flag.String("deck0", "", "deck name for player 0")
	deck1Name = flag.String("deck1", "", "deck name for player 1")
	seed      = flag.Uint("seed", 1337, "match seed")
	maxTurns  = flag.Int("turns", 200, "turn cap before the match is called a draw")
	quiet     = flag.Bool("quiet", false, "suppress the per-event log")
)

var (
	turnColor   = color.New(color.FgCyan, color.Bold)
	attackColor = color.New(color.FgRed)
	koColor     = color.New(color.FgRed, color.Bold)
	prizeColor  = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
	winColor    = color.New(color.FgYellow, color.Bold)
)

func main() {
	flag.Parse()

	deck0, deck1, err := loadDecks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load decks: %v\n", err)
		os.Exit(1)
	}

	engine := game.New(game.DefaultConfig(), zap.NewNop())
	if !*quiet {
		engine.Subscribe(printEvent)
	}

	if err := engine.InitWithDecks(deck0, deck1, uint32(*seed)); err != nil {
		fmt.Fprintf(os.Stderr, "init match: %v\n", err)
		os.Exit(1)
	}

	turns := 0
	for ; turns < *maxTurns && !engine.Over(); turns++ {
		engine.CPUTurn()
	}

	fmt.Println()
	if engine.Over() {
		winColor.Printf("Player %d wins after %d turns (match %s)\n",
			engine.Winner(), engine.TurnCounter(), engine.MatchID())
	} else {
		fmt.Printf("No winner after %d turns; calling it a draw\n", turns)
	}
}

// loadDecks resolves the configured deck lists, falling back to a built-in
// demo pool when no card list is given.
func loadDecks() ([]game.CardTemplate, []game.CardTemplate, error) {
	if *cardsPath == "" {
		pool := demoPool()
		return pool, pool, nil
	}

	templates, err := game.LoadTemplatesFile(*cardsPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := deck.Parse(*decksPath)
	if err != nil {
		return nil, nil, err
	}
	idx := deck.NewIndex(templates)

	resolve := func(name string) ([]game.CardTemplate, error) {
		if name == "" && len(f.Decks) > 0 {
			name = f.Decks[0].Name
		}
		entry, err := f.ByName(name)
		if err != nil {
			return nil, err
		}
		return entry.Resolve(idx)
	}

	deck0, err := resolve(*deck0Name)
	if err != nil {
		return nil, nil, err
	}
	deck1, err := resolve(*deck1Name)
	if err != nil {
		return nil, nil, err
	}
	return deck0, deck1, nil
}

func demoPool() []game.CardTemplate {
	return []game.CardTemplate{
		{
			ID:        "demo-sparkit",
			NameEN:    "Sparkit",
			Supertype: game.SupertypePokemon,
			Pokemon: &game.PokemonData{
				Stage: game.StageBasic,
				HP:    70,
				Types: []energy.Type{energy.Lightning},
				Attacks: []game.AttackTemplate{
					{Name: "Jolt", Cost: energy.CostOf(map[energy.Type]int{energy.Lightning: 1}, 0), Damage: 20},
					{Name: "Thunder Dive", Cost: energy.CostOf(map[energy.Type]int{energy.Lightning: 2}, 1), Damage: 60},
				},
				Weakness:    &game.TypeModifier{Type: energy.Fighting},
				RetreatCost: 1,
			},
		},
		{
			ID:        "demo-boulder",
			NameEN:    "Boulderon",
			Supertype: game.SupertypePokemon,
			Pokemon: &game.PokemonData{
				Stage: game.StageBasic,
				HP:    110,
				Types: []energy.Type{energy.Fighting},
				Attacks: []game.AttackTemplate{
					{Name: "Rock Hurl", Cost: energy.CostOf(map[energy.Type]int{energy.Fighting: 1}, 1), Damage: 40},
				},
				RetreatCost: 3,
			},
		},
		{
			ID:        "demo-energy-l",
			NameEN:    "Lightning Energy",
			Supertype: game.SupertypeEnergy,
			Energy:    &game.EnergyData{EnergyType: energy.Lightning},
		},
		{
			ID:        "demo-energy-f",
			NameEN:    "Fighting Energy",
			Supertype: game.SupertypeEnergy,
			Energy:    &game.EnergyData{EnergyType: energy.Fighting},
		},
	}
}

func printEvent(ev rules.Event) {
	switch payload := ev.Payload.(type) {
	case game.TurnPayload:
		if payload.Phase == "start" {
			turnColor.Printf("── Turn %d: player %d ──\n", payload.Turn, payload.Player)
		}
	case game.DrawPayload:
		dimColor.Printf("  player %d draws %s\n", payload.Player, payload.Card.Name)
	case game.MulliganPayload:
		fmt.Printf("  player %d mulligans (%d)\n", payload.Player, payload.Count)
	case game.PlacePayload:
		fmt.Printf("  player %d plays %s\n", payload.Player, payload.Card.Name)
	case game.AttachPayload:
		fmt.Printf("  player %d attaches %s energy to %s\n", payload.Player, payload.EnergyType, payload.Target.Name)
	case game.RetreatPayload:
		fmt.Printf("  player %d retreats %s for %s\n", payload.Player, payload.From.Name, payload.To.Name)
	case game.EvolvePayload:
		fmt.Printf("  player %d evolves %s into %s\n", payload.Player, payload.From.Name, payload.To.Name)
	case game.AttackPayload:
		attackColor.Printf("  player %d: %s uses %s for %d\n",
			payload.Player, payload.Attacker.Name, payload.AttackName, payload.Damage)
	case game.KOPayload:
		koColor.Printf("  %s is knocked out!\n", payload.Card.Name)
	case game.PrizePayload:
		prizeColor.Printf("  player %d takes a prize (%d left)\n", payload.Player, payload.Remaining)
	case game.PromotePayload:
		fmt.Printf("  player %d promotes %s\n", payload.Player, payload.Card.Name)
	case game.ConditionPayload:
		if payload.Recovered {
			fmt.Printf("  %s recovers from %s\n", payload.Card.Name, payload.Condition)
		} else {
			fmt.Printf("  %s takes %d from %s\n", payload.Card.Name, payload.Damage, payload.Condition)
		}
	case game.GameOverPayload:
		winColor.Printf("  player %d wins by %s\n", payload.Winner, payload.Reason)
	}
}
