package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testMatch = Match{Home: "SRH", Away: "RR"}

func player(role Role, team, name string, credits, points float64) Player {
	return Player{Role: role, Team: team, Name: name, Credits: credits, Points: points}
}

// samplePlayers is a 17 player pool: 2 WK, 5 BAT, 4 AR, 6 BOWL
func samplePlayers() []Player {
	return []Player{
		player(RoleWicketKeeper, "SRH", "Klaasen", 9.5, 52),
		player(RoleWicketKeeper, "RR", "Samson", 9.0, 48),

		player(RoleBatter, "SRH", "Head", 10.0, 61),
		player(RoleBatter, "RR", "Jaiswal", 9.5, 55),
		player(RoleBatter, "RR", "Buttler", 9.0, 50),
		player(RoleBatter, "SRH", "Markram", 8.5, 38),
		player(RoleBatter, "RR", "Parag", 8.0, 35),

		player(RoleAllRounder, "SRH", "Abhishek", 9.0, 58),
		player(RoleAllRounder, "SRH", "Nitish", 8.0, 40),
		player(RoleAllRounder, "RR", "Ashwin", 8.5, 42),
		player(RoleAllRounder, "SRH", "Shahbaz", 7.0, 30),

		player(RoleBowler, "SRH", "Cummins", 9.0, 45),
		player(RoleBowler, "RR", "Boult", 9.0, 44),
		player(RoleBowler, "SRH", "Bhuvneshwar", 8.5, 40),
		player(RoleBowler, "RR", "Chahal", 8.5, 41),
		player(RoleBowler, "RR", "Avesh", 8.0, 33),
		player(RoleBowler, "SRH", "Natarajan", 8.0, 36),
	}
}

func organizedPool(t *testing.T, players []Player) *Pool {
	t.Helper()
	pool := NewPool(testMatch)
	require.NoError(t, pool.AddPlayers(players))
	pool.Organize()
	return pool
}

func collect(t *testing.T, b *Builder, pool *Pool, tmpl RoleTemplate) ([]CompletedRoster, SearchStats) {
	t.Helper()
	var rosters []CompletedRoster
	stats, err := b.Search(pool, tmpl, func(r CompletedRoster) bool {
		rosters = append(rosters, r)
		return true
	})
	require.NoError(t, err)
	return rosters, stats
}

func rosterKeys(rosters []CompletedRoster) map[string]bool {
	keys := make(map[string]bool, len(rosters))
	for _, r := range rosters {
		keys[r.Key()] = true
	}
	return keys
}

// bruteForce enumerates rosters with no pruning, no de-duplication and a
// straightforward validity check at the end.
func bruteForce(pool *Pool, tmpl RoleTemplate, rules Rules) map[string]bool {
	found := make(map[string]bool)
	order := tmpl.RoleOrder()

	var chosen []Player
	var pick func(depth, start, need int)
	pick = func(depth, start, need int) {
		if depth == len(order) {
			if len(chosen) != rules.SquadSize {
				return
			}
			teams := map[string]int{}
			spent := 0.0
			for _, p := range chosen {
				teams[p.Team]++
				spent += p.Credits
			}
			for _, n := range teams {
				if n > rules.MaxPerTeam {
					return
				}
			}
			if spent > rules.Budget+creditEpsilon {
				return
			}
			r := CompletedRoster{Lineup: []RoleGroup{{Players: append([]Player(nil), chosen...)}}}
			found[r.Key()] = true
			return
		}
		role := order[depth]
		players := pool.Role(role)
		if need == 0 {
			next := 0
			if depth+1 < len(order) {
				next = tmpl.Quota(order[depth+1])
			}
			pick(depth+1, 0, next)
			return
		}
		for i := start; i < len(players); i++ {
			chosen = append(chosen, players[i])
			pick(depth, i+1, need-1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	pick(0, 0, tmpl.Quota(order[0]))
	return found
}
