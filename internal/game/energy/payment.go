package energy

// CanPay reports whether the attached pool can cover the cost.
//
// The check runs in two passes: first every specific-type requirement must be
// met by energy of that exact type, then the colorless requirement is covered
// from whatever remains. Energy oversupplied beyond its own typed requirement
// counts toward the colorless remainder.
func CanPay(pool Attached, cost Cost) bool {
	remaining := pool.Clone()
	for t, need := range cost.Typed {
		if remaining.Get(t) < need {
			return false
		}
		remaining[t] -= need
	}
	return remaining.Total() >= cost.Colorless
}

// SpendForRetreat removes count units from the pool to pay a retreat cost.
// Any type mix is acceptable; units are consumed in lexicographic type order
// so the discard is deterministic. Returns the units spent per type and true,
// or nil and false with the pool untouched when it cannot cover the cost.
func SpendForRetreat(pool Attached, count int) (map[Type]int, bool) {
	if count <= 0 {
		return map[Type]int{}, true
	}
	if pool.Total() < count {
		return nil, false
	}

	spent := make(map[Type]int)
	remaining := count
	for _, t := range pool.Types() {
		for remaining > 0 && pool[t] > 0 {
			pool[t]--
			spent[t]++
			remaining--
		}
		if pool[t] == 0 {
			delete(pool, t)
		}
		if remaining == 0 {
			break
		}
	}
	return spent, true
}
