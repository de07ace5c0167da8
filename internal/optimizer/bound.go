package optimizer

// creditEpsilon absorbs float drift when comparing summed credit values
const creditEpsilon = 1e-9

// PruningBound holds, for each role, the fewest credits that must still be
// available once that role is filled so the later roles can be completed with
// their cheapest players.
type PruningBound struct {
	order    []Role
	cheapest map[Role]float64
	after    map[Role]float64
	short    Role
}

// ComputeBound derives the bound for a template from an organized pool
func ComputeBound(pool *Pool, tmpl RoleTemplate) PruningBound {
	order := tmpl.RoleOrder()
	b := PruningBound{
		order:    order,
		cheapest: make(map[Role]float64, len(order)),
		after:    make(map[Role]float64, len(order)),
	}

	for _, role := range order {
		players := pool.Role(role)
		quota := tmpl.Quota(role)
		if quota < 0 || quota > len(players) {
			if b.short == "" {
				b.short = role
			}
			quota = min(max(quota, 0), len(players))
		}
		// role groups are sorted most expensive first, so the tail is the cheapest
		sum := 0.0
		for _, p := range players[len(players)-quota:] {
			sum += p.Credits
		}
		b.cheapest[role] = sum
	}

	remaining := 0.0
	for i := len(order) - 1; i >= 0; i-- {
		b.after[order[i]] = remaining
		remaining += b.cheapest[order[i]]
	}

	return b
}

// Cheapest is the cost of filling a role with its cheapest players
func (b PruningBound) Cheapest(role Role) float64 {
	return b.cheapest[role]
}

// After is the minimum credits still needed once role is filled
func (b PruningBound) After(role Role) float64 {
	return b.after[role]
}

// Total is the cheapest possible cost of a full roster under the template
func (b PruningBound) Total() float64 {
	if len(b.order) == 0 {
		return 0
	}
	first := b.order[0]
	return b.cheapest[first] + b.after[first]
}

// Feasible is false when some role has fewer players than its quota or a
// negative quota
func (b PruningBound) Feasible() bool {
	return b.short == ""
}

// ShortRole returns the first role that cannot be filled, if any
func (b PruningBound) ShortRole() Role {
	return b.short
}

// Prune reports whether a branch with remaining credits after role can be cut
func (b PruningBound) Prune(role Role, remaining float64) bool {
	return remaining < b.after[role]-creditEpsilon
}
