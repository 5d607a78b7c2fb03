package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

// Per-upkeep condition damage.
const (
	poisonDamage = 10
	burnDamage   = 20
)

// applySpecialConditions runs the turn player's between-turns upkeep on
// their active Pokémon: poison always deals its damage, burn deals damage
// on a failed coin flip and heals on a successful one. Asleep, paralyzed
// and confused are carried as state but have no automated effect here.
// Condition damage does not knock out by itself; knockouts resolve on
// attack, matching the reference behavior.
func (e *Engine) applySpecialConditions(player int) {
	p := e.players[player]
	active := p.Active
	if active == nil || len(active.Conditions) == 0 {
		return
	}

	if active.Conditions[ConditionPoisoned] {
		active.Damage += poisonDamage
		e.bus.Emit(rules.EventCondition, ConditionPayload{
			Player:    player,
			Card:      snapshotCard(active),
			Condition: string(ConditionPoisoned),
			Damage:    poisonDamage,
		})
	}

	if active.Conditions[ConditionBurned] {
		if e.rng.CoinFlip() {
			delete(active.Conditions, ConditionBurned)
			e.bus.Emit(rules.EventCondition, ConditionPayload{
				Player:    player,
				Card:      snapshotCard(active),
				Condition: string(ConditionBurned),
				Recovered: true,
			})
		} else {
			active.Damage += burnDamage
			e.bus.Emit(rules.EventCondition, ConditionPayload{
				Player:    player,
				Card:      snapshotCard(active),
				Condition: string(ConditionBurned),
				Damage:    burnDamage,
			})
		}
	}
}
