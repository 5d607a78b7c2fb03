package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/energy"
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// CPU heuristic tuning. These weights are observable behavior: changing
// them changes which Pokémon the CPU promotes, energizes and retreats.
const (
	promoteHPWeight     = 0.4
	promoteDamageWeight = 0.003
	promoteEnergyWeight = 0.2

	retreatHPThreshold = 0.25
	retreatAdvantage   = 0.30
)

// CPUTurn plays one full turn for the current turn player using the greedy
// heuristic sequence: promote if the active slot is empty, bench a Basic,
// attach one energy, consider retreating, attack if affordable, end turn.
// If the attack knocks out the defender's active, the defender's best bench
// Pokémon is promoted before the turn is handed over. Rejected while a
// pending promotion blocks the turn sequence.
// Deterministic given the match RNG state; no search.
func (e *Engine) CPUTurn() bool {
	if !e.started || e.over {
		return false
	}
	if e.phases.Current() == rules.PhaseAwaitingNewActive {
		return false
	}
	player := e.turns.TurnPlayer()
	e.StartTurn()
	if e.over {
		return true
	}
	p := e.players[player]

	if p.Active == nil {
		if idx := e.bestBenchPromotion(player); idx >= 0 {
			e.PromoteFromBench(player, idx)
		}
	}
	if p.Active == nil {
		// No Pokémon to fight with; nothing else is legal this turn.
		e.logger.Debug("cpu has no active and no bench", zap.Int("player", player))
		e.EndTurn()
		return true
	}

	e.cpuPlayBasic(player)
	e.cpuAttachEnergy(player)
	e.cpuConsiderRetreat(player)

	if idx := e.bestUsableAttack(p.Active); idx >= 0 && e.players[1-player].Active != nil {
		e.AttackWith(player, idx)
	}
	if e.phases.Current() == rules.PhaseAwaitingNewActive {
		// The knockout emptied the defender's slot; the turn cannot be
		// handed over until it is refilled.
		defender := 1 - player
		if idx := e.bestBenchPromotion(defender); idx >= 0 {
			e.PromoteFromBench(defender, idx)
		}
	}
	if !e.over {
		e.EndTurn()
	}
	return true
}

// promotionScore ranks a bench Pokémon for promotion to the active slot.
func promotionScore(c *CardInstance) float64 {
	return c.HPRatio()*promoteHPWeight +
		float64(c.MaxAttackDamage())*promoteDamageWeight +
		float64(c.Attached.Total())*promoteEnergyWeight
}

// bestBenchPromotion returns the bench index with the highest promotion
// score, or -1 when the bench is empty.
func (e *Engine) bestBenchPromotion(player int) int {
	p := e.players[player]
	best := -1
	bestScore := 0.0
	for i, c := range p.Bench {
		if c == nil {
			continue
		}
		if score := promotionScore(c); best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// cpuPlayBasic benches the highest-HP Basic Pokémon in hand, if an empty
// slot exists.
func (e *Engine) cpuPlayBasic(player int) {
	p := e.players[player]
	slot := p.EmptyBenchSlot()
	if slot < 0 {
		return
	}
	best := -1
	bestHP := 0
	for i, c := range p.Hand {
		if c.IsBasicPokemon() && (best < 0 || c.HP() > bestHP) {
			best = i
			bestHP = c.HP()
		}
	}
	if best >= 0 {
		e.PlaceBench(player, best, slot)
	}
}

// cpuAttachEnergy attaches the first Energy card in hand, choosing the
// target in priority order: a Pokémon that the card would take from
// unaffordable to affordable on some attack, then the strongest
// under-energized bench Pokémon, then the active as a fallback.
func (e *Engine) cpuAttachEnergy(player int) {
	p := e.players[player]
	if e.turns.Flags(player).EnergyAttachedThisTurn {
		return
	}
	handIndex := -1
	for i, c := range p.Hand {
		if c.IsEnergy() {
			handIndex = i
			break
		}
	}
	if handIndex < 0 {
		return
	}
	energyType := p.Hand[handIndex].Template.Energy.EnergyType

	if target := e.energyEnablesAttackTarget(player, energyType); target != nil {
		e.AttachEnergy(player, handIndex, target.UID)
		return
	}
	if target := e.strongestUnderEnergizedBench(player); target != nil {
		e.AttachEnergy(player, handIndex, target.UID)
		return
	}
	if p.Active != nil {
		e.AttachEnergy(player, handIndex, p.Active.UID)
	}
}

// energyEnablesAttackTarget returns the first in-play Pokémon, active
// first, that is exactly one attachment of the given type away from
// affording an attack it cannot afford now.
func (e *Engine) energyEnablesAttackTarget(player int, t energy.Type) *CardInstance {
	p := e.players[player]
	candidates := make([]*CardInstance, 0, BenchSize+1)
	if p.Active != nil {
		candidates = append(candidates, p.Active)
	}
	for _, c := range p.Bench {
		if c != nil {
			candidates = append(candidates, c)
		}
	}
	for _, c := range candidates {
		for i := 0; i < c.AttackCount(); i++ {
			cost := c.AttackAt(i).Cost
			if energy.CanPay(c.Attached, cost) {
				continue
			}
			boosted := c.Attached.Clone()
			boosted.Add(t, 1)
			if energy.CanPay(boosted, cost) {
				return c
			}
		}
	}
	return nil
}

// strongestUnderEnergizedBench returns the bench Pokémon with the highest
// max attack damage among those whose attached energy does not yet cover
// their first attack.
func (e *Engine) strongestUnderEnergizedBench(player int) *CardInstance {
	p := e.players[player]
	var best *CardInstance
	for _, c := range p.Bench {
		if c == nil {
			continue
		}
		if energy.CanPay(c.Attached, c.FirstAttack().Cost) {
			continue
		}
		if best == nil || c.MaxAttackDamage() > best.MaxAttackDamage() {
			best = c
		}
	}
	return best
}

// cpuConsiderRetreat retreats only when the active is at or below 25%
// HP and a bench Pokémon sits at least 30 percentage points higher.
func (e *Engine) cpuConsiderRetreat(player int) {
	p := e.players[player]
	if p.Active == nil || e.turns.Flags(player).RetreatedThisTurn {
		return
	}
	activeRatio := p.Active.HPRatio()
	if activeRatio > retreatHPThreshold {
		return
	}
	best := -1
	bestRatio := 0.0
	for i, c := range p.Bench {
		if c == nil {
			continue
		}
		ratio := c.HPRatio()
		if ratio >= activeRatio+retreatAdvantage && ratio > bestRatio {
			best = i
			bestRatio = ratio
		}
	}
	if best >= 0 {
		e.Retreat(player, best)
	}
}

// bestUsableAttack returns the affordable attack index with the highest
// base damage, or -1 when none is affordable.
func (e *Engine) bestUsableAttack(c *CardInstance) int {
	best := -1
	bestDamage := -1
	for _, i := range c.UsableAttacks() {
		if d := c.AttackAt(i).Damage; d > bestDamage {
			best = i
			bestDamage = d
		}
	}
	return best
}
