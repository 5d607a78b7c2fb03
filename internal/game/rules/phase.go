package rules

import (
	"fmt"
)

// Phase represents a state of the match sequence.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInitialPokemonSelection
	PhasePrizeCardSetup
	PhaseGameStartReady
	PhasePlayerDraw
	PhasePlayerMain
	PhasePlayerAttack
	PhaseCPUDraw
	PhaseCPUMain
	PhaseCPUAttack
	PhaseAwaitingNewActive
	PhasePrizeSelection
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSetup:                   "SETUP",
	PhaseInitialPokemonSelection: "INITIAL_POKEMON_SELECTION",
	PhasePrizeCardSetup:          "PRIZE_CARD_SETUP",
	PhaseGameStartReady:          "GAME_START_READY",
	PhasePlayerDraw:              "PLAYER_DRAW",
	PhasePlayerMain:              "PLAYER_MAIN",
	PhasePlayerAttack:            "PLAYER_ATTACK",
	PhaseCPUDraw:                 "CPU_DRAW",
	PhaseCPUMain:                 "CPU_MAIN",
	PhaseCPUAttack:               "CPU_ATTACK",
	PhaseAwaitingNewActive:       "AWAITING_NEW_ACTIVE",
	PhasePrizeSelection:          "PRIZE_SELECTION",
	PhaseGameOver:                "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// IsDraw reports whether the phase is a draw phase for either seat.
func (p Phase) IsDraw() bool {
	return p == PhasePlayerDraw || p == PhaseCPUDraw
}

// IsMain reports whether the phase is a main phase for either seat.
func (p Phase) IsMain() bool {
	return p == PhasePlayerMain || p == PhaseCPUMain
}

// IsAttack reports whether the phase is an attack phase for either seat.
func (p Phase) IsAttack() bool {
	return p == PhasePlayerAttack || p == PhaseCPUAttack
}

// Terminal reports whether the phase ends the match.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver
}

// allowedTransitions enumerates every legal phase edge. Transitions outside
// this table are rejected regardless of game state.
var allowedTransitions = map[Phase][]Phase{
	PhaseSetup:                   {PhaseInitialPokemonSelection},
	PhaseInitialPokemonSelection: {PhasePrizeCardSetup},
	PhasePrizeCardSetup:          {PhaseGameStartReady},
	PhaseGameStartReady:          {PhasePlayerDraw, PhaseCPUDraw},
	PhasePlayerDraw:              {PhasePlayerMain, PhaseGameOver},
	PhasePlayerMain:              {PhasePlayerAttack, PhaseCPUDraw, PhaseGameOver},
	PhasePlayerAttack:            {PhaseCPUDraw, PhaseAwaitingNewActive, PhasePrizeSelection, PhaseGameOver},
	PhaseCPUDraw:                 {PhaseCPUMain, PhaseGameOver},
	PhaseCPUMain:                 {PhaseCPUAttack, PhasePlayerDraw, PhaseGameOver},
	PhaseCPUAttack:               {PhasePlayerDraw, PhaseAwaitingNewActive, PhasePrizeSelection, PhaseGameOver},
	PhaseAwaitingNewActive:       {PhasePlayerMain, PhaseCPUMain, PhaseGameOver},
	PhasePrizeSelection:          {PhasePlayerDraw, PhaseCPUDraw, PhaseAwaitingNewActive, PhaseGameOver},
	PhaseGameOver:                {},
}

// Guard inspects game state before a transition is allowed to fire.
// Returning false vetoes the transition.
type Guard func(from, to Phase) bool

// PhaseManager tracks the current phase and enforces the transition table.
type PhaseManager struct {
	current  Phase
	previous Phase
	guards   []Guard
}

// NewPhaseManager creates a manager starting in SETUP.
func NewPhaseManager() *PhaseManager {
	return &PhaseManager{current: PhaseSetup, previous: PhaseSetup}
}

// Current returns the phase in progress.
func (pm *PhaseManager) Current() Phase {
	return pm.current
}

// Previous returns the phase before the last transition.
func (pm *PhaseManager) Previous() Phase {
	return pm.previous
}

// AddGuard registers a state-dependent transition guard.
func (pm *PhaseManager) AddGuard(g Guard) {
	if g != nil {
		pm.guards = append(pm.guards, g)
	}
}

// CanTransitionTo reports whether the edge to the target phase is legal and
// every guard admits it.
func (pm *PhaseManager) CanTransitionTo(to Phase) bool {
	legal := false
	for _, next := range allowedTransitions[pm.current] {
		if next == to {
			legal = true
			break
		}
	}
	if !legal {
		return false
	}
	for _, g := range pm.guards {
		if !g(pm.current, to) {
			return false
		}
	}
	return true
}

// TransitionTo moves to the target phase. Returns false, leaving the phase
// unchanged, when the edge is illegal or a guard vetoes it.
func (pm *PhaseManager) TransitionTo(to Phase) bool {
	if !pm.CanTransitionTo(to) {
		return false
	}
	pm.previous = pm.current
	pm.current = to
	return true
}

// Force moves to the target phase without consulting the transition table.
// Reserved for match teardown paths (a loss discovered outside the normal
// flow still has to reach GAME_OVER).
func (pm *PhaseManager) Force(to Phase) {
	pm.previous = pm.current
	pm.current = to
}
