package optimizer

import (
	"fmt"
	"sort"
	"strings"
)

// Reason is the outcome of adding a player to a partial roster.
// Rejections are expected during search and are never errors.
type Reason int

const (
	PlayerAdded Reason = iota
	RejectedTeamComplete
	RejectedRoleFull
	RejectedTeamCap
	RejectedBudget
)

func (r Reason) String() string {
	switch r {
	case PlayerAdded:
		return "PLAYER_ADDED"
	case RejectedTeamComplete:
		return "ROLE_REJECTED_TEAM_COMPLETE"
	case RejectedRoleFull:
		return "ROLE_REJECTED_ROLE_FULL"
	case RejectedTeamCap:
		return "ROLE_REJECTED_TEAM_CAP"
	case RejectedBudget:
		return "ROLE_REJECTED_BUDGET"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// frame records the aggregate state from before a role subset was adopted
type frame struct {
	role      Role
	added     int
	points    float64
	remaining float64
}

// PartialRoster is the working state of one search branch. It is changed only
// through Adopt and Release, which form a strict stack.
type PartialRoster struct {
	template   RoleTemplate
	rules      Rules
	roles      map[Role][]Player
	teamCounts map[string]int
	size       int
	points     float64
	remaining  float64
	frames     []frame
}

// NewPartialRoster returns an empty roster with the full budget available
func NewPartialRoster(tmpl RoleTemplate, rules Rules) *PartialRoster {
	order := tmpl.RoleOrder()
	roles := make(map[Role][]Player, len(order))
	for _, role := range order {
		roles[role] = make([]Player, 0, tmpl.Quota(role))
	}
	return &PartialRoster{
		template:   tmpl,
		rules:      rules,
		roles:      roles,
		teamCounts: make(map[string]int, 2),
		remaining:  rules.Budget,
		frames:     make([]frame, 0, len(order)),
	}
}

// Adopt adds every player of a role subset. If any player is rejected the
// players already added from the subset are removed and the rejection reason
// is returned; on success it returns PlayerAdded and Release must follow.
func (pr *PartialRoster) Adopt(role Role, players []Player) Reason {
	f := frame{
		role:      role,
		points:    pr.points,
		remaining: pr.remaining,
	}
	for _, p := range players {
		if reason := pr.add(role, p); reason != PlayerAdded {
			pr.rollback(f)
			return reason
		}
		f.added++
	}
	pr.frames = append(pr.frames, f)
	return PlayerAdded
}

// Release undoes the most recent successful Adopt, restoring the exact
// aggregate values from before it.
func (pr *PartialRoster) Release() {
	if len(pr.frames) == 0 {
		return
	}
	f := pr.frames[len(pr.frames)-1]
	pr.frames = pr.frames[:len(pr.frames)-1]
	pr.rollback(f)
}

func (pr *PartialRoster) add(role Role, p Player) Reason {
	switch {
	case pr.size >= pr.rules.SquadSize:
		return RejectedTeamComplete
	case len(pr.roles[role]) >= pr.template.Quota(role):
		return RejectedRoleFull
	case pr.teamCounts[p.Team] >= pr.rules.MaxPerTeam:
		return RejectedTeamCap
	case p.Credits > pr.remaining+creditEpsilon:
		return RejectedBudget
	}

	pr.roles[role] = append(pr.roles[role], p)
	pr.teamCounts[p.Team]++
	pr.size++
	pr.points += p.Points
	pr.remaining -= p.Credits
	return PlayerAdded
}

func (pr *PartialRoster) rollback(f frame) {
	assigned := pr.roles[f.role]
	kept := len(assigned) - f.added
	for _, p := range assigned[kept:] {
		pr.teamCounts[p.Team]--
	}
	pr.roles[f.role] = assigned[:kept]
	pr.size -= f.added
	pr.points = f.points
	pr.remaining = f.remaining
}

// Remaining returns the credits still available
func (pr *PartialRoster) Remaining() float64 {
	return pr.remaining
}

// Complete reports whether the squad is full and every quota is exactly met
func (pr *PartialRoster) Complete() bool {
	if pr.size != pr.rules.SquadSize {
		return false
	}
	for role, quota := range pr.template.Quotas {
		if len(pr.roles[role]) != quota {
			return false
		}
	}
	return true
}

// Totals is a copy of the aggregate counters of a partial roster
type Totals struct {
	Size             int
	Points           float64
	CreditsRemaining float64
	RoleCounts       map[Role]int
	TeamCounts       map[string]int
}

// Totals returns the current aggregate counters
func (pr *PartialRoster) Totals() Totals {
	t := Totals{
		Size:             pr.size,
		Points:           pr.points,
		CreditsRemaining: pr.remaining,
		RoleCounts:       make(map[Role]int, len(pr.roles)),
		TeamCounts:       make(map[string]int, len(pr.teamCounts)),
	}
	for role, players := range pr.roles {
		t.RoleCounts[role] = len(players)
	}
	for team, n := range pr.teamCounts {
		if n > 0 {
			t.TeamCounts[team] = n
		}
	}
	return t
}

// Snapshot copies the roster into an immutable CompletedRoster
func (pr *PartialRoster) Snapshot() CompletedRoster {
	order := pr.template.RoleOrder()
	lineup := make([]RoleGroup, 0, len(order))
	for _, role := range order {
		players := make([]Player, len(pr.roles[role]))
		copy(players, pr.roles[role])
		lineup = append(lineup, RoleGroup{Role: role, Players: players})
	}
	return CompletedRoster{
		Template:         pr.template.Label(),
		Points:           pr.points,
		CreditsRemaining: pr.remaining,
		Lineup:           lineup,
	}
}

// RoleGroup lists the players filling one role
type RoleGroup struct {
	Role    Role     `json:"role"`
	Players []Player `json:"players"`
}

// CompletedRoster is an accepted roster. It is never modified after creation.
type CompletedRoster struct {
	Template         string      `json:"template"`
	Points           float64     `json:"points"`
	CreditsRemaining float64     `json:"credits_remaining"`
	Lineup           []RoleGroup `json:"lineup"`
}

// Players returns every player in role processing order
func (c CompletedRoster) Players() []Player {
	players := make([]Player, 0, 11)
	for _, group := range c.Lineup {
		players = append(players, group.Players...)
	}
	return players
}

// Names returns the player names in role processing order
func (c CompletedRoster) Names() []string {
	players := c.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether a player with the given name is in the roster
func (c CompletedRoster) Contains(name string) bool {
	for _, group := range c.Lineup {
		for _, p := range group.Players {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// CreditsSpent sums the credit cost of every player
func (c CompletedRoster) CreditsSpent() float64 {
	total := 0.0
	for _, p := range c.Players() {
		total += p.Credits
	}
	return total
}

// TeamCounts returns how many players each origin team contributes
func (c CompletedRoster) TeamCounts() map[string]int {
	counts := make(map[string]int, 2)
	for _, p := range c.Players() {
		counts[p.Team]++
	}
	return counts
}

// Key identifies a roster by its sorted player names
func (c CompletedRoster) Key() string {
	names := c.Names()
	sort.Strings(names)
	return strings.Join(names, ",")
}
