package optimizer

import (
	"fmt"
	"sort"
	"strings"
)

// Match names the two teams contesting a game
type Match struct {
	Home string `json:"home" binding:"required"`
	Away string `json:"away" binding:"required"`
}

// Validate checks that the match names two distinct teams
func (m Match) Validate() error {
	if strings.TrimSpace(m.Home) == "" || strings.TrimSpace(m.Away) == "" {
		return fmt.Errorf("match needs two team names, got %q and %q", m.Home, m.Away)
	}
	if m.Home == m.Away {
		return fmt.Errorf("match teams must differ, got %q twice", m.Home)
	}
	return nil
}

// Has reports whether team plays in the match
func (m Match) Has(team string) bool {
	return team == m.Home || team == m.Away
}

// Pool groups every eligible player of a match by role and by origin team
type Pool struct {
	match     Match
	roles     map[Role][]Player
	teams     map[string][]Player
	size      int
	organized bool
}

// NewPool creates an empty pool for a match
func NewPool(match Match) *Pool {
	return &Pool{
		match: match,
		roles: make(map[Role][]Player, len(DefaultRoleOrder)),
		teams: map[string][]Player{match.Home: {}, match.Away: {}},
	}
}

// AddPlayer validates a player and appends it to its role and team groups.
// Names are not checked for duplicates.
func (p *Pool) AddPlayer(player Player) error {
	if err := player.Validate(); err != nil {
		return err
	}
	if !p.match.Has(player.Team) {
		return fmt.Errorf("%w: %q plays for %q, match is %s vs %s", ErrUnknownTeam, player.Name, player.Team, p.match.Home, p.match.Away)
	}

	p.roles[player.Role] = append(p.roles[player.Role], player)
	p.teams[player.Team] = append(p.teams[player.Team], player)
	p.size++
	p.organized = false
	return nil
}

// AddPlayers adds every player, stopping at the first invalid one
func (p *Pool) AddPlayers(players []Player) error {
	for i, player := range players {
		if err := p.AddPlayer(player); err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
	}
	return nil
}

// Organize sorts each role group by credit cost, most expensive first.
// Players with equal cost keep their insertion order.
func (p *Pool) Organize() {
	for role := range p.roles {
		players := p.roles[role]
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].Credits > players[j].Credits
		})
	}
	p.organized = true
}

// Organized reports whether Organize ran after the last AddPlayer
func (p *Pool) Organized() bool {
	return p.organized
}

// Match returns the match the pool was built for
func (p *Pool) Match() Match {
	return p.match
}

// Role returns the players of a role. The slice is shared and must not be modified.
func (p *Pool) Role(role Role) []Player {
	return p.roles[role]
}

// RoleSize returns how many players of a role are in the pool
func (p *Pool) RoleSize(role Role) int {
	return len(p.roles[role])
}

// Team returns the players of an origin team in insertion order
func (p *Pool) Team(team string) []Player {
	return p.teams[team]
}

// Size returns the total number of players
func (p *Pool) Size() int {
	return p.size
}
