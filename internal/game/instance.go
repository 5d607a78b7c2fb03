package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
)

// SpecialCondition is a status affecting an in-play Pokémon.
type SpecialCondition string

const (
	ConditionPoisoned  SpecialCondition = "POISONED"
	ConditionBurned    SpecialCondition = "BURNED"
	ConditionAsleep    SpecialCondition = "ASLEEP"
	ConditionParalyzed SpecialCondition = "PARALYZED"
	ConditionConfused  SpecialCondition = "CONFUSED"
)

// turnNeverPlayed marks an instance that has not entered play yet.
const turnNeverPlayed = -1

// CardInstance binds a template to a unique identity within one match.
// Instances are created once at deck-build time and only ever move between
// zones afterwards; knocked-out Pokémon and spent energy stay addressable
// in the discard.
type CardInstance struct {
	UID        int
	Template   *CardTemplate
	Damage     int
	Attached   energy.Attached
	Conditions map[SpecialCondition]bool
	TurnPlayed int
}

// instanceFactory hands out match-unique instance IDs from a monotonic
// counter. Integer IDs keep snapshots and retreat tie-breaks deterministic.
type instanceFactory struct {
	nextUID int
}

// New clones a template into a fresh instance. The template is never mutated.
func (f *instanceFactory) New(tpl *CardTemplate) *CardInstance {
	f.nextUID++
	return &CardInstance{
		UID:        f.nextUID,
		Template:   tpl,
		Attached:   make(energy.Attached),
		Conditions: make(map[SpecialCondition]bool),
		TurnPlayed: turnNeverPlayed,
	}
}

// Name returns the instance's display name.
func (c *CardInstance) Name() string {
	return c.Template.Name()
}

// IsPokemon reports whether the card is a Pokémon.
func (c *CardInstance) IsPokemon() bool {
	return c.Template.Supertype == SupertypePokemon
}

// IsBasicPokemon reports whether the card may be played directly to the
// bench or active slot.
func (c *CardInstance) IsBasicPokemon() bool {
	return c.IsPokemon() && c.Template.Pokemon.Stage == StageBasic
}

// IsEnergy reports whether the card is an Energy card.
func (c *CardInstance) IsEnergy() bool {
	return c.Template.Supertype == SupertypeEnergy
}

// HP returns the card's hit points, zero for non-Pokémon.
func (c *CardInstance) HP() int {
	if c.Template.Pokemon == nil {
		return 0
	}
	return c.Template.Pokemon.HP
}

// RemainingHP returns hit points left after accumulated damage.
func (c *CardInstance) RemainingHP() int {
	hp := c.HP() - c.Damage
	if hp < 0 {
		return 0
	}
	return hp
}

// HPRatio returns remaining HP as a fraction of total, 0 for non-Pokémon.
func (c *CardInstance) HPRatio() float64 {
	hp := c.HP()
	if hp == 0 {
		return 0
	}
	return float64(c.RemainingHP()) / float64(hp)
}

// KnockedOut reports whether accumulated damage meets or exceeds HP.
func (c *CardInstance) KnockedOut() bool {
	return c.IsPokemon() && c.Damage >= c.HP()
}

// PrimaryType returns the card's first listed type, Colorless when absent.
func (c *CardInstance) PrimaryType() energy.Type {
	if c.Template.Pokemon != nil && len(c.Template.Pokemon.Types) > 0 {
		return c.Template.Pokemon.Types[0]
	}
	if c.Template.Energy != nil {
		return c.Template.Energy.EnergyType
	}
	return energy.Colorless
}

// Attack is a resolved attack choice: the cost to verify and the base
// damage to deal.
type Attack struct {
	Name   string
	Cost   energy.Cost
	Damage int
}

// AttackAt returns the card's attack at the given index. A Pokémon with no
// listed attacks falls back to a single-colorless-cost attack at the default
// damage, so every Pokémon can always present an attack.
func (c *CardInstance) AttackAt(index int) Attack {
	data := c.Template.Pokemon
	if data == nil || len(data.Attacks) == 0 || index < 0 || index >= len(data.Attacks) {
		return Attack{
			Name:   "Struggle",
			Cost:   energy.CostOf(nil, 1),
			Damage: DefaultAttackDamage,
		}
	}
	a := data.Attacks[index]
	return Attack{Name: a.Name, Cost: a.Cost, Damage: a.Damage}
}

// FirstAttack returns the card's first listed attack (or the fallback).
func (c *CardInstance) FirstAttack() Attack {
	return c.AttackAt(0)
}

// AttackCount returns the number of listed attacks, at least 1 for Pokémon
// because of the fallback attack.
func (c *CardInstance) AttackCount() int {
	if c.Template.Pokemon == nil {
		return 0
	}
	if len(c.Template.Pokemon.Attacks) == 0 {
		return 1
	}
	return len(c.Template.Pokemon.Attacks)
}

// MaxAttackDamage returns the highest base damage across the card's attacks.
func (c *CardInstance) MaxAttackDamage() int {
	max := 0
	for i := 0; i < c.AttackCount(); i++ {
		if d := c.AttackAt(i).Damage; d > max {
			max = d
		}
	}
	return max
}

// UsableAttacks returns the indexes of attacks whose cost the attached
// energy can pay.
func (c *CardInstance) UsableAttacks() []int {
	var usable []int
	for i := 0; i < c.AttackCount(); i++ {
		if energy.CanPay(c.Attached, c.AttackAt(i).Cost) {
			usable = append(usable, i)
		}
	}
	return usable
}
