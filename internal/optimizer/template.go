package optimizer

import (
	"fmt"
	"strconv"
	"strings"
)

// Rules are the structural limits every roster must respect
type Rules struct {
	Budget     float64 `json:"budget"`
	SquadSize  int     `json:"squad_size"`
	MaxPerTeam int     `json:"max_per_team"`
	// DistinctPlayers tries every subset of a role even when another subset
	// holds players with identical role, team, credits and points.
	DistinctPlayers bool `json:"distinct_players"`
	// DisablePruning turns off the credit lower bound. Output is unchanged, only slower.
	DisablePruning bool `json:"disable_pruning"`
}

// DefaultRules returns the standard fantasy cricket limits
func DefaultRules() Rules {
	return Rules{
		Budget:     100.0,
		SquadSize:  11,
		MaxPerTeam: 7,
	}
}

// RoleTemplate fixes how many players of each role a roster holds.
// Order is the role processing order shared by the pruning bound and the search.
type RoleTemplate struct {
	Name   string       `json:"name"`
	Quotas map[Role]int `json:"quotas" binding:"required"`
	Order  []Role       `json:"order,omitempty"`
}

// NewTemplate builds a template in the default role order
func NewTemplate(wk, bat, ar, bowl int) RoleTemplate {
	return RoleTemplate{
		Name: fmt.Sprintf("%d-%d-%d-%d", wk, bat, ar, bowl),
		Quotas: map[Role]int{
			RoleWicketKeeper: wk,
			RoleBatter:       bat,
			RoleAllRounder:   ar,
			RoleBowler:       bowl,
		},
	}
}

// DefaultTemplates returns the role splits commonly allowed for an 11 player squad
func DefaultTemplates() []RoleTemplate {
	return []RoleTemplate{
		NewTemplate(1, 3, 2, 5),
		NewTemplate(1, 3, 3, 4),
		NewTemplate(1, 4, 1, 5),
		NewTemplate(1, 4, 2, 4),
		NewTemplate(1, 4, 3, 3),
		NewTemplate(1, 5, 1, 4),
		NewTemplate(1, 5, 2, 3),
	}
}

// Validate rejects quotas for unknown roles, negative quotas and an order
// that is not a permutation of the four roles.
func (t RoleTemplate) Validate() error {
	for role, n := range t.Quotas {
		if !role.Valid() {
			return fmt.Errorf("template %s: unknown role %q", t.Label(), role)
		}
		if n < 0 {
			return fmt.Errorf("template %s: %s quota cannot be negative, got %d", t.Label(), role, n)
		}
	}
	if len(t.Order) == 0 {
		return nil
	}
	if len(t.Order) != len(DefaultRoleOrder) {
		return fmt.Errorf("template %s: order must list each of the %d roles once", t.Label(), len(DefaultRoleOrder))
	}
	seen := make(map[Role]bool, len(t.Order))
	for _, role := range t.Order {
		if !role.Valid() {
			return fmt.Errorf("template %s: unknown role %q in order", t.Label(), role)
		}
		if seen[role] {
			return fmt.Errorf("template %s: order lists %s twice", t.Label(), role)
		}
		seen[role] = true
	}
	return nil
}

// Quota returns the required count for a role, zero when absent
func (t RoleTemplate) Quota(role Role) int {
	return t.Quotas[role]
}

// RoleOrder returns the processing order, falling back to DefaultRoleOrder
func (t RoleTemplate) RoleOrder() []Role {
	if len(t.Order) == 0 {
		return DefaultRoleOrder
	}
	return t.Order
}

// Size is the number of players the template asks for
func (t RoleTemplate) Size() int {
	total := 0
	for _, n := range t.Quotas {
		total += n
	}
	return total
}

// Label returns the template name, deriving one from the quotas when empty
func (t RoleTemplate) Label() string {
	if t.Name != "" {
		return t.Name
	}
	parts := make([]string, 0, len(t.RoleOrder()))
	for _, role := range t.RoleOrder() {
		parts = append(parts, strconv.Itoa(t.Quota(role)))
	}
	return strings.Join(parts, "-")
}
