package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
)

// Supertype is the top-level card category.
type Supertype string

const (
	SupertypePokemon Supertype = "POKEMON"
	SupertypeTrainer Supertype = "TRAINER"
	SupertypeEnergy  Supertype = "ENERGY"
)

// Stage is a Pokémon card's evolution stage.
type Stage string

const (
	StageBasic  Stage = "BASIC"
	StageStage1 Stage = "STAGE1"
	StageStage2 Stage = "STAGE2"
)

// Defaults applied when card data omits numeric fields. Malformed card data
// degrades gracefully instead of crashing mid-combat.
const (
	DefaultHP           = 60
	DefaultAttackDamage = 10
	DefaultRetreatCost  = 1
)

// AttackTemplate is one attack as defined on a card.
type AttackTemplate struct {
	Name   string
	Cost   energy.Cost
	Damage int
	Text   string
}

// TypeModifier is a weakness or resistance entry.
type TypeModifier struct {
	Type energy.Type
}

// PokemonData holds the fields only Pokémon cards carry.
type PokemonData struct {
	Stage       Stage
	EvolvesFrom string
	HP          int
	Types       []energy.Type
	Attacks     []AttackTemplate
	Weakness    *TypeModifier
	Resistance  *TypeModifier
	RetreatCost int
}

// EnergyData holds the fields only Energy cards carry.
type EnergyData struct {
	EnergyType energy.Type
}

// TrainerData holds the fields only Trainer cards carry.
type TrainerData struct {
	Text string
}

// CardTemplate is the immutable master definition of a card. Exactly one of
// Pokemon, Energy and Trainer is non-nil, matching the Supertype tag, so
// stage/attack/evolvesFrom fields only exist where they are meaningful.
type CardTemplate struct {
	ID        string
	NameEN    string
	NameJA    string
	Supertype Supertype
	Pokemon   *PokemonData
	Energy    *EnergyData
	Trainer   *TrainerData
}

// Name returns the card's display name, preferring the English one.
func (t *CardTemplate) Name() string {
	if t.NameEN != "" {
		return t.NameEN
	}
	return t.NameJA
}

// cardJSON is the external card shape consumed from the master card list.
type cardJSON struct {
	ID          string        `json:"id" validate:"required"`
	NameEN      string        `json:"name_en"`
	NameJA      string        `json:"name_ja"`
	CardType    string        `json:"card_type" validate:"required"`
	Stage       string        `json:"stage"`
	EvolvesFrom string        `json:"evolves_from"`
	HP          int           `json:"hp" validate:"min=0"`
	Types       []string      `json:"types"`
	Attacks     []attackJSON  `json:"attacks" validate:"dive"`
	Weakness    *modifierJSON `json:"weakness"`
	Resistance  *modifierJSON `json:"resistance"`
	RetreatCost int           `json:"retreat_cost" validate:"min=0"`
	EnergyType  string        `json:"energy_type"`
	Text        string        `json:"text_en"`
}

type attackJSON struct {
	NameEN string   `json:"name_en"`
	NameJA string   `json:"name_ja"`
	Cost   []string `json:"cost"`
	Damage int      `json:"damage" validate:"min=0"`
	TextEN string   `json:"text_en"`
}

type modifierJSON struct {
	Type string `json:"type"`
}

var validate = validator.New()

// parseSupertype maps the external card_type strings onto the tagged model.
func parseSupertype(s string) (Supertype, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pokémon", "pokemon":
		return SupertypePokemon, nil
	case "trainer", "supporter", "item":
		return SupertypeTrainer, nil
	case "energy", "basic energy", "special energy":
		return SupertypeEnergy, nil
	}
	return "", fmt.Errorf("unknown card_type %q", s)
}

func parseStage(s string) Stage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stage1", "stage 1":
		return StageStage1
	case "stage2", "stage 2":
		return StageStage2
	}
	return StageBasic
}

// fromJSON converts a raw card object into a template, applying the
// defaulting policy for numeric fields and failing fast on structural
// problems (missing id, unknown card_type).
func fromJSON(raw cardJSON) (CardTemplate, error) {
	if err := validate.Struct(raw); err != nil {
		return CardTemplate{}, fmt.Errorf("card %q: %w", raw.ID, err)
	}
	supertype, err := parseSupertype(raw.CardType)
	if err != nil {
		return CardTemplate{}, fmt.Errorf("card %q: %w", raw.ID, err)
	}

	tpl := CardTemplate{
		ID:        raw.ID,
		NameEN:    raw.NameEN,
		NameJA:    raw.NameJA,
		Supertype: supertype,
	}

	switch supertype {
	case SupertypePokemon:
		data := &PokemonData{
			Stage:       parseStage(raw.Stage),
			EvolvesFrom: raw.EvolvesFrom,
			HP:          raw.HP,
			RetreatCost: raw.RetreatCost,
		}
		if data.HP <= 0 {
			data.HP = DefaultHP
		}
		if raw.RetreatCost == 0 {
			data.RetreatCost = DefaultRetreatCost
		}
		for _, t := range raw.Types {
			data.Types = append(data.Types, energy.ParseType(t))
		}
		if len(data.Types) == 0 {
			data.Types = []energy.Type{energy.Colorless}
		}
		for _, a := range raw.Attacks {
			atk := AttackTemplate{
				Name:   a.NameEN,
				Cost:   energy.ParseCost(a.Cost),
				Damage: a.Damage,
				Text:   a.TextEN,
			}
			if atk.Name == "" {
				atk.Name = a.NameJA
			}
			if atk.Damage <= 0 {
				atk.Damage = DefaultAttackDamage
			}
			data.Attacks = append(data.Attacks, atk)
		}
		if raw.Weakness != nil {
			data.Weakness = &TypeModifier{Type: energy.ParseType(raw.Weakness.Type)}
		}
		if raw.Resistance != nil {
			data.Resistance = &TypeModifier{Type: energy.ParseType(raw.Resistance.Type)}
		}
		tpl.Pokemon = data
	case SupertypeEnergy:
		et := raw.EnergyType
		if et == "" && len(raw.Types) > 0 {
			et = raw.Types[0]
		}
		tpl.Energy = &EnergyData{EnergyType: energy.ParseType(et)}
	case SupertypeTrainer:
		tpl.Trainer = &TrainerData{Text: raw.Text}
	}

	return tpl, nil
}

// LoadTemplates reads a master card list (a JSON array of card objects).
// Structural errors abort the load rather than surfacing later inside
// combat resolution.
func LoadTemplates(r io.Reader) ([]CardTemplate, error) {
	var raw []cardJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode card list: %w", err)
	}
	templates := make([]CardTemplate, 0, len(raw))
	for _, rc := range raw {
		tpl, err := fromJSON(rc)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

// LoadTemplatesFile reads a master card list from disk.
func LoadTemplatesFile(path string) ([]CardTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card list: %w", err)
	}
	defer f.Close()
	return LoadTemplates(f)
}
