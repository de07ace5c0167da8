package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialRoster_AddCheckOrder(t *testing.T) {
	tests := []struct {
		name     string
		rules    Rules
		tmpl     RoleTemplate
		role     Role
		players  []Player
		expected Reason
	}{
		{
			name:  "squad complete wins over role full",
			rules: Rules{Budget: 100, SquadSize: 2, MaxPerTeam: 7},
			tmpl:  RoleTemplate{Quotas: map[Role]int{RoleBatter: 2}},
			role:  RoleBatter,
			players: []Player{
				player(RoleBatter, "SRH", "A", 5, 1),
				player(RoleBatter, "RR", "B", 5, 1),
				player(RoleBatter, "RR", "C", 5, 1),
			},
			expected: RejectedTeamComplete,
		},
		{
			name:  "role full",
			rules: DefaultRules(),
			tmpl:  NewTemplate(1, 3, 2, 5),
			role:  RoleWicketKeeper,
			players: []Player{
				player(RoleWicketKeeper, "SRH", "A", 5, 1),
				player(RoleWicketKeeper, "RR", "B", 5, 1),
			},
			expected: RejectedRoleFull,
		},
		{
			name:  "team cap wins over budget",
			rules: Rules{Budget: 12, SquadSize: 11, MaxPerTeam: 2},
			tmpl:  NewTemplate(1, 3, 2, 5),
			role:  RoleBatter,
			players: []Player{
				player(RoleBatter, "SRH", "A", 5, 1),
				player(RoleBatter, "SRH", "B", 5, 1),
				player(RoleBatter, "SRH", "C", 5, 1),
			},
			expected: RejectedTeamCap,
		},
		{
			name:  "budget",
			rules: Rules{Budget: 10, SquadSize: 11, MaxPerTeam: 7},
			tmpl:  NewTemplate(1, 3, 2, 5),
			role:  RoleBatter,
			players: []Player{
				player(RoleBatter, "SRH", "A", 6, 1),
				player(RoleBatter, "RR", "B", 4.5, 1),
			},
			expected: RejectedBudget,
		},
		{
			name:  "exact budget is accepted",
			rules: Rules{Budget: 10, SquadSize: 11, MaxPerTeam: 7},
			tmpl:  NewTemplate(1, 3, 2, 5),
			role:  RoleBatter,
			players: []Player{
				player(RoleBatter, "SRH", "A", 6, 1),
				player(RoleBatter, "RR", "B", 4, 1),
			},
			expected: PlayerAdded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := NewPartialRoster(tt.tmpl, tt.rules)
			before := pr.Totals()

			reason := pr.Adopt(tt.role, tt.players)
			assert.Equal(t, tt.expected, reason)
			if reason != PlayerAdded {
				assert.Equal(t, before, pr.Totals(), "rejected subset must leave no trace")
			}
		})
	}
}

func TestPartialRoster_ReleaseRestoresExactTotals(t *testing.T) {
	pool := organizedPool(t, samplePlayers())
	tmpl := NewTemplate(1, 3, 2, 5)
	pr := NewPartialRoster(tmpl, DefaultRules())

	empty := pr.Totals()
	require.Equal(t, PlayerAdded, pr.Adopt(RoleWicketKeeper, pool.Role(RoleWicketKeeper)[:1]))
	afterKeeper := pr.Totals()

	require.Equal(t, PlayerAdded, pr.Adopt(RoleBatter, pool.Role(RoleBatter)[1:4]))
	afterBatters := pr.Totals()

	// the all-rounder quota is two, so adopting three is refused on the third
	assert.Equal(t, RejectedRoleFull, pr.Adopt(RoleAllRounder, pool.Role(RoleAllRounder)[:3]))
	assert.Equal(t, afterBatters, pr.Totals())

	require.Equal(t, PlayerAdded, pr.Adopt(RoleAllRounder, pool.Role(RoleAllRounder)[2:4]))
	assert.NotEqual(t, afterBatters, pr.Totals())
	pr.Release()
	assert.Equal(t, afterBatters, pr.Totals())

	pr.Release()
	assert.Equal(t, afterKeeper, pr.Totals())
	pr.Release()
	assert.Equal(t, empty, pr.Totals())

	pr.Release() // releasing an empty roster is a no-op
	assert.Equal(t, empty, pr.Totals())
}

func TestPartialRoster_CompleteAndSnapshot(t *testing.T) {
	pool := organizedPool(t, samplePlayers())
	tmpl := NewTemplate(1, 3, 2, 5)
	pr := NewPartialRoster(tmpl, DefaultRules())

	picks := map[Role][]Player{
		RoleWicketKeeper: pool.Role(RoleWicketKeeper)[1:2],
		RoleBatter:       pool.Role(RoleBatter)[2:5],
		RoleAllRounder:   pool.Role(RoleAllRounder)[2:4],
	}
	for _, role := range []Role{RoleWicketKeeper, RoleBatter, RoleAllRounder} {
		require.Equal(t, PlayerAdded, pr.Adopt(role, picks[role]))
		assert.False(t, pr.Complete())
	}
	require.Equal(t, PlayerAdded, pr.Adopt(RoleBowler, pool.Role(RoleBowler)[1:6]))
	require.True(t, pr.Complete())

	snap := pr.Snapshot()
	assert.Len(t, snap.Players(), 11)
	assert.Equal(t, "1-3-2-5", snap.Template)
	assert.InDelta(t, pr.Remaining(), snap.CreditsRemaining, 1e-9)
	assert.InDelta(t, 100.0-snap.CreditsRemaining, snap.CreditsSpent(), 1e-9)
	assert.True(t, snap.Contains("Samson"))

	names := snap.Names()
	pr.Release()
	pr.Release()
	assert.Equal(t, names, snap.Names(), "snapshot must not share state with the partial roster")
	assert.False(t, pr.Complete())
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "PLAYER_ADDED", PlayerAdded.String())
	assert.Equal(t, "ROLE_REJECTED_TEAM_COMPLETE", RejectedTeamComplete.String())
	assert.Equal(t, "ROLE_REJECTED_ROLE_FULL", RejectedRoleFull.String())
	assert.Equal(t, "ROLE_REJECTED_TEAM_CAP", RejectedTeamCap.String())
	assert.Equal(t, "ROLE_REJECTED_BUDGET", RejectedBudget.String())
	assert.Equal(t, "Reason(42)", Reason(42).String())
}
