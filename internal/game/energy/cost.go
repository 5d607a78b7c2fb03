package energy

import (
	"fmt"
	"sort"
	"strings"
)

// Cost represents an attack's energy cost: counts per specific type plus a
// generic colorless count satisfiable by any energy.
type Cost struct {
	Typed     map[Type]int
	Colorless int
}

// ParseCost parses a cost expressed as a list of energy symbols, e.g.
// ["Lightning", "Lightning", "Colorless"] or ["L", "L", "C"].
func ParseCost(symbols []string) Cost {
	cost := Cost{Typed: make(map[Type]int)}
	for _, s := range symbols {
		t := ParseType(s)
		if t == Colorless {
			cost.Colorless++
			continue
		}
		cost.Typed[t]++
	}
	return cost
}

// CostOf builds a cost from explicit counts. Nil typed maps are allowed.
func CostOf(typed map[Type]int, colorless int) Cost {
	cost := Cost{Typed: make(map[Type]int), Colorless: colorless}
	for t, n := range typed {
		if n > 0 {
			cost.Typed[t] = n
		}
	}
	return cost
}

// Total returns the total number of energy units the cost requires.
func (c Cost) Total() int {
	total := c.Colorless
	for _, n := range c.Typed {
		total += n
	}
	return total
}

// IsFree reports whether the cost requires no energy at all.
func (c Cost) IsFree() bool {
	return c.Total() == 0
}

// String renders the cost in symbol order, typed requirements first.
func (c Cost) String() string {
	types := make([]Type, 0, len(c.Typed))
	for t := range c.Typed {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var parts []string
	for _, t := range types {
		for i := 0; i < c.Typed[t]; i++ {
			parts = append(parts, fmt.Sprintf("{%s}", t))
		}
	}
	for i := 0; i < c.Colorless; i++ {
		parts = append(parts, "{C}")
	}
	return strings.Join(parts, "")
}
