package energy

import (
	"sort"
	"strings"
)

// Type represents a basic energy type.
type Type string

const (
	Grass     Type = "GRASS"
	Fire      Type = "FIRE"
	Water     Type = "WATER"
	Lightning Type = "LIGHTNING"
	Psychic   Type = "PSYCHIC"
	Fighting  Type = "FIGHTING"
	Darkness  Type = "DARKNESS"
	Metal     Type = "METAL"
	Colorless Type = "COLORLESS" // Colorless requirements can be paid with any type
)

// shortCodes maps the single-letter codes used by card data to energy types.
var shortCodes = map[string]Type{
	"G": Grass,
	"R": Fire,
	"W": Water,
	"L": Lightning,
	"P": Psychic,
	"F": Fighting,
	"D": Darkness,
	"M": Metal,
	"C": Colorless,
}

// ParseType parses an energy type from either a full name ("Lightning")
// or a single-letter code ("L"). Unknown values parse as Colorless, matching
// the permissive defaulting policy for malformed card data.
func ParseType(s string) Type {
	up := strings.ToUpper(strings.TrimSpace(s))
	if t, ok := shortCodes[up]; ok {
		return t
	}
	switch Type(up) {
	case Grass, Fire, Water, Lightning, Psychic, Fighting, Darkness, Metal, Colorless:
		return Type(up)
	}
	return Colorless
}

// Attached tracks the energy units attached to a single Pokémon,
// keyed by type. Counts are always non-negative.
type Attached map[Type]int

// Add attaches amount units of the given type.
func (a Attached) Add(t Type, amount int) {
	if amount <= 0 {
		return
	}
	a[t] += amount
}

// Get returns the attached count for a type.
func (a Attached) Get(t Type) int {
	return a[t]
}

// Total returns the total number of attached energy units across all types.
func (a Attached) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Clone returns an independent copy of the pool.
func (a Attached) Clone() Attached {
	out := make(Attached, len(a))
	for t, n := range a {
		if n > 0 {
			out[t] = n
		}
	}
	return out
}

// Types returns the attached types in lexicographic order. Map iteration
// order is not deterministic, so every spend path sorts first.
func (a Attached) Types() []Type {
	types := make([]Type, 0, len(a))
	for t, n := range a {
		if n > 0 {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
