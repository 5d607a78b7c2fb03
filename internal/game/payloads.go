package game

// Event payloads. Every payload carries detached snapshots only, so
// subscribers can never reach back into live engine state.

// InitPayload announces a freshly built match.
type InitPayload struct {
	MatchID string        `json:"match_id"`
	Seed    uint32        `json:"seed"`
	Players [2]ZoneCounts `json:"players"`
}

// SetupPayload announces that a player's opening board is placed.
type SetupPayload struct {
	Player int        `json:"player"`
	Zones  ZoneCounts `json:"zones"`
}

// MulliganPayload announces a hand reshuffle during setup.
type MulliganPayload struct {
	Player int `json:"player"`
	Count  int `json:"count"`
}

// DrawPayload announces one card drawn from deck to hand.
type DrawPayload struct {
	Player int        `json:"player"`
	Card   *CardView  `json:"card"`
	Zones  ZoneCounts `json:"zones"`
}

// DeckOutPayload signals a draw from an empty deck. Informational: the
// caller decides whether repeated deck-outs end the match.
type DeckOutPayload struct {
	Player int `json:"player"`
}

// PlacePayload announces a card entering the bench or active slot.
type PlacePayload struct {
	Player int        `json:"player"`
	Card   *CardView  `json:"card"`
	Index  int        `json:"index,omitempty"`
	Zones  ZoneCounts `json:"zones"`
}

// MovePayload announces a generic zone transfer.
type MovePayload struct {
	Player int        `json:"player"`
	From   Zone       `json:"from"`
	To     Zone       `json:"to"`
	Card   *CardView  `json:"card"`
	Zones  ZoneCounts `json:"zones"`
}

// AttachPayload announces an energy attachment.
type AttachPayload struct {
	Player     int            `json:"player"`
	Target     *CardView      `json:"target"`
	EnergyType string         `json:"energy_type"`
	Attached   map[string]int `json:"attached"`
}

// RetreatPayload announces an active/bench swap and the energy spent.
type RetreatPayload struct {
	Player int            `json:"player"`
	From   *CardView      `json:"from"`
	To     *CardView      `json:"to"`
	Spent  map[string]int `json:"spent"`
}

// EvolvePayload announces an evolution.
type EvolvePayload struct {
	Player int       `json:"player"`
	From   *CardView `json:"from"`
	To     *CardView `json:"to"`
	Slot   Zone      `json:"slot"`
	Index  int       `json:"index,omitempty"`
}

// AttackPayload announces a declared attack and its computed damage.
type AttackPayload struct {
	Player     int       `json:"player"`
	Attacker   *CardView `json:"attacker"`
	Target     *CardView `json:"target"`
	AttackName string    `json:"attack_name"`
	Damage     int       `json:"damage"`
}

// DamagePayload announces damage landing on a card.
type DamagePayload struct {
	Player int       `json:"player"`
	Card   *CardView `json:"card"`
}

// KOPayload announces a knockout.
type KOPayload struct {
	Player int       `json:"player"`
	Card   *CardView `json:"card"`
}

// PrizePayload announces a prize card taken.
type PrizePayload struct {
	Player    int       `json:"player"`
	Card      *CardView `json:"card"`
	Remaining int       `json:"remaining"`
}

// PromotePayload announces a bench Pokémon filling an empty active slot.
type PromotePayload struct {
	Player int       `json:"player"`
	Card   *CardView `json:"card"`
	Index  int       `json:"index"`
}

// ConditionPayload announces special-condition upkeep (poison, burn).
type ConditionPayload struct {
	Player    int       `json:"player"`
	Card      *CardView `json:"card"`
	Condition string    `json:"condition"`
	Damage    int       `json:"damage"`
	Recovered bool      `json:"recovered,omitempty"`
}

// TurnPayload announces a turn boundary.
type TurnPayload struct {
	Player int    `json:"player"`
	Turn   int    `json:"turn"`
	Phase  string `json:"phase"`
}

// BlockedPayload announces a rejected operation with its reason code.
type BlockedPayload struct {
	Player int    `json:"player"`
	Reason string `json:"reason"`
}

// GameOverPayload announces the end of the match.
type GameOverPayload struct {
	Winner int    `json:"winner"`
	Reason string `json:"reason"`
}
