package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

// Attack resolves the attacker's first listed attack against the opposing
// active Pokémon. See AttackWith for the rejection and resolution rules.
func (e *Engine) Attack(player int) bool {
	return e.AttackWith(player, 0)
}

// AttackWith resolves the attack at the given index.
//
// Rejections (no state change): either active slot empty; the opening-turn
// attack lock for the seat that went first; unmet energy cost. The two
// latter emit ATTACK_BLOCKED with a reason code.
//
// Damage: base damage, doubled when the defender's weakness matches the
// attacker's type, then reduced by a flat 30 (floored at 0) when the
// defender's resistance matches. A knockout discards the defender's active,
// moves one prize card to the attacker's hand, and wins the match when it
// was the attacker's last prize.
func (e *Engine) AttackWith(player, attackIndex int) bool {
	if !validSeat(player) || e.over || !e.started {
		return false
	}
	attacker := e.players[player]
	defender := e.players[1-player]
	if attacker.Active == nil || defender.Active == nil {
		return false
	}
	if e.turns.IsOpeningTurn(player) {
		e.bus.Emit(rules.EventAttackBlocked, BlockedPayload{Player: player, Reason: rules.ReasonFirstTurn})
		return false
	}

	atk := attacker.Active.AttackAt(attackIndex)
	if !energy.CanPay(attacker.Active.Attached, atk.Cost) {
		e.bus.Emit(rules.EventAttackBlocked, BlockedPayload{Player: player, Reason: rules.ReasonNoEnergy})
		return false
	}

	if player == 0 {
		e.phases.TransitionTo(rules.PhasePlayerAttack)
	} else {
		e.phases.TransitionTo(rules.PhaseCPUAttack)
	}

	target := defender.Active
	damage := e.computeDamage(atk, attacker.Active, target)

	e.bus.Emit(rules.EventAttack, AttackPayload{
		Player:     player,
		Attacker:   snapshotCard(attacker.Active),
		Target:     snapshotCard(target),
		AttackName: atk.Name,
		Damage:     damage,
	})

	target.Damage += damage
	e.bus.Emit(rules.EventDamage, DamagePayload{Player: 1 - player, Card: snapshotCard(target)})

	if target.KnockedOut() {
		e.resolveKnockout(player, 1-player)
	}
	return true
}

// computeDamage applies weakness and resistance to an attack's base damage.
// Resistance is a flat reduction, not a multiplier.
func (e *Engine) computeDamage(atk Attack, attacker, target *CardInstance) int {
	damage := atk.Damage
	if damage < 0 {
		damage = 0
	}
	attackType := attacker.PrimaryType()
	data := target.Template.Pokemon
	if data.Weakness != nil && data.Weakness.Type == attackType {
		damage *= 2
	}
	if data.Resistance != nil && data.Resistance.Type == attackType {
		damage -= 30
		if damage < 0 {
			damage = 0
		}
	}
	return damage
}

// resolveKnockout discards the loser's active, pays the winner one prize
// and ends the match when the winner's prize pile empties. Otherwise the
// match branches to AWAITING_NEW_ACTIVE until the loser promotes.
func (e *Engine) resolveKnockout(winner, loser int) {
	loserState := e.players[loser]
	winnerState := e.players[winner]

	ko := loserState.Active
	loserState.Active = nil
	loserState.Discard = append(loserState.Discard, ko)
	e.bus.Emit(rules.EventKO, KOPayload{Player: loser, Card: snapshotCard(ko)})

	if len(winnerState.Prizes) > 0 {
		prize := winnerState.Prizes[0]
		winnerState.Prizes = winnerState.Prizes[1:]
		winnerState.Hand = append(winnerState.Hand, prize)
		e.bus.Emit(rules.EventPrize, PrizePayload{
			Player:    winner,
			Card:      snapshotCard(prize),
			Remaining: len(winnerState.Prizes),
		})
		if len(winnerState.Prizes) == 0 {
			e.endMatch(winner, "prizes")
			return
		}
	}

	e.phases.TransitionTo(rules.PhaseAwaitingNewActive)
}
