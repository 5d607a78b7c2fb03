package game

// Zone names a per-player card collection.
type Zone string

const (
	ZoneDeck    Zone = "deck"
	ZoneHand    Zone = "hand"
	ZoneBench   Zone = "bench"
	ZoneActive  Zone = "active"
	ZoneDiscard Zone = "discard"
	ZonePrize   Zone = "prize"
)

// BenchSize is the number of bench slots per player.
const BenchSize = 5

// PlayerState holds one player's zones and everything in them.
//
// Deck index 0 is the top of the deck; draws pop the front. The bench has
// fixed slots that stay nil until occupied. Cards are only ever moved
// between zones, so the total card count per player is invariant for the
// whole match.
type PlayerState struct {
	Deck    []*CardInstance
	Hand    []*CardInstance
	Bench   [BenchSize]*CardInstance
	Active  *CardInstance
	Discard []*CardInstance
	Prizes  []*CardInstance
}

// NewPlayerState creates an empty player state.
func NewPlayerState() *PlayerState {
	return &PlayerState{}
}

// BenchCount returns the number of occupied bench slots.
func (p *PlayerState) BenchCount() int {
	n := 0
	for _, c := range p.Bench {
		if c != nil {
			n++
		}
	}
	return n
}

// EmptyBenchSlot returns the index of the first empty bench slot, or -1.
func (p *PlayerState) EmptyBenchSlot() int {
	for i, c := range p.Bench {
		if c == nil {
			return i
		}
	}
	return -1
}

// TotalCards counts every card the player owns across all zones. This is
// the card-conservation invariant the tests pin.
func (p *PlayerState) TotalCards() int {
	total := len(p.Deck) + len(p.Hand) + len(p.Discard) + len(p.Prizes) + p.BenchCount()
	if p.Active != nil {
		total++
	}
	return total
}

// FindByUID searches every zone for the instance with the given uid.
func (p *PlayerState) FindByUID(uid int) *CardInstance {
	if p.Active != nil && p.Active.UID == uid {
		return p.Active
	}
	for _, c := range p.Bench {
		if c != nil && c.UID == uid {
			return c
		}
	}
	for _, zone := range [][]*CardInstance{p.Hand, p.Discard, p.Prizes, p.Deck} {
		for _, c := range zone {
			if c.UID == uid {
				return c
			}
		}
	}
	return nil
}

// BenchIndexOf returns the bench slot holding the instance, or -1.
func (p *PlayerState) BenchIndexOf(card *CardInstance) int {
	for i, c := range p.Bench {
		if c == card {
			return i
		}
	}
	return -1
}

// HandIndexOf returns the hand position of the instance with the uid, or -1.
func (p *PlayerState) HandIndexOf(uid int) int {
	for i, c := range p.Hand {
		if c.UID == uid {
			return i
		}
	}
	return -1
}

// removeFromHand removes and returns the card at the hand index, nil when
// the index is out of range.
func (p *PlayerState) removeFromHand(index int) *CardInstance {
	if index < 0 || index >= len(p.Hand) {
		return nil
	}
	c := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return c
}

// hasBasicPokemon reports whether the hand contains a Basic Pokémon. Used
// by the mulligan check.
func (p *PlayerState) hasBasicPokemon() bool {
	for _, c := range p.Hand {
		if c.IsBasicPokemon() {
			return true
		}
	}
	return false
}
