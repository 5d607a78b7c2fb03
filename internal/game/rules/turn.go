package rules

// TurnFlags tracks the once-per-turn constraints for a single player.
// Flags reset at the start of that player's own turn, never mid-turn and
// never on the opponent's turn.
type TurnFlags struct {
	DrawnThisTurn          bool
	EnergyAttachedThisTurn bool
	RetreatedThisTurn      bool
}

// TurnManager tracks the global turn counter, the turn player and both
// players' per-turn flags.
//
// The counter starts at 0 and increments on every end-of-turn, so each
// player's first turn is counter 0 and 1 respectively; the opening-turn
// attack and evolution locks key off counter 0 plus the first-player marker.
type TurnManager struct {
	counter     int
	turnPlayer  int
	firstPlayer int
	flags       [2]TurnFlags
}

// NewTurnManager creates a turn manager with the given player going first.
func NewTurnManager(firstPlayer int) *TurnManager {
	return &TurnManager{turnPlayer: firstPlayer, firstPlayer: firstPlayer}
}

// Counter returns the global turn counter (0-based).
func (tm *TurnManager) Counter() int {
	return tm.counter
}

// TurnPlayer returns the seat whose turn it is.
func (tm *TurnManager) TurnPlayer() int {
	return tm.turnPlayer
}

// FirstPlayer returns the seat that took the opening turn.
func (tm *TurnManager) FirstPlayer() int {
	return tm.firstPlayer
}

// Flags returns the per-turn flags for a seat.
func (tm *TurnManager) Flags(player int) *TurnFlags {
	return &tm.flags[player]
}

// IsOpeningTurn reports whether the match is still on the very first turn
// and the given seat is the one that went first. Attacks and evolutions are
// locked for that seat on that turn.
func (tm *TurnManager) IsOpeningTurn(player int) bool {
	return tm.counter == 0 && player == tm.firstPlayer
}

// StartTurn resets the turn player's own flags. The opponent's flags are
// left alone.
func (tm *TurnManager) StartTurn() {
	tm.flags[tm.turnPlayer] = TurnFlags{}
}

// EndTurn hands the turn to the other seat and advances the counter.
func (tm *TurnManager) EndTurn() {
	tm.turnPlayer = 1 - tm.turnPlayer
	tm.counter++
}
