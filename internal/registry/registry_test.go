package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
)

func roster(points, remaining float64, names ...string) optimizer.CompletedRoster {
	players := make([]optimizer.Player, len(names))
	for i, name := range names {
		players[i] = optimizer.Player{Role: optimizer.RoleBatter, Team: "SRH", Name: name, Credits: 1}
	}
	return optimizer.CompletedRoster{
		Template:         "test",
		Points:           points,
		CreditsRemaining: remaining,
		Lineup:           []optimizer.RoleGroup{{Role: optimizer.RoleBatter, Players: players}},
	}
}

func ids(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func sampleRegistry() *Registry {
	reg := New()
	reg.Save(roster(500, 2.0, "Head", "Klaasen", "Cummins"))  // 1
	reg.Save(roster(520, 0.5, "Head", "Samson", "Boult"))     // 2
	reg.Save(roster(480, 4.0, "Jaiswal", "Klaasen", "Boult")) // 3
	reg.Save(roster(520, 1.0, "Head", "Klaasen", "Boult"))    // 4
	reg.Save(roster(470, 4.0, "Parag", "Samson", "Chahal"))   // 5
	return reg
}

func TestRegistry_SaveAssignsSequentialIDs(t *testing.T) {
	reg := New()
	assert.Equal(t, 1, reg.Save(roster(1, 0, "A")))
	assert.Equal(t, 2, reg.Save(roster(2, 0, "B")))
	assert.Equal(t, 3, reg.Save(roster(3, 0, "A", "B")))
	assert.Equal(t, 3, reg.Len())

	e, ok := reg.Get(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Points)

	_, ok = reg.Get(0)
	assert.False(t, ok)
	_, ok = reg.Get(4)
	assert.False(t, ok)

	assert.Equal(t, []int{1, 3}, reg.IDsFor("A"))
	assert.Empty(t, reg.IDsFor("Z"))
}

func TestRegistry_ConcurrentSaves(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Save(roster(1, 0, "Shared"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Len())
	shared := reg.IDsFor("Shared")
	require.Len(t, shared, 50)
	for i, id := range shared {
		assert.Equal(t, i+1, id)
	}
}

func TestRegistry_TopK(t *testing.T) {
	reg := sampleRegistry()

	tests := []struct {
		name     string
		by       Field
		k        int
		desc     bool
		expected []int
	}{
		{name: "points desc, ties in ID order", by: ByPoints, k: 3, desc: true, expected: []int{2, 4, 1}},
		{name: "points asc", by: ByPoints, k: 2, desc: false, expected: []int{5, 3}},
		{name: "credits desc", by: ByCreditsRemaining, k: 3, desc: true, expected: []int{3, 5, 1}},
		{name: "k larger than registry", by: ByPoints, k: 10, desc: true, expected: []int{2, 4, 1, 3, 5}},
		{name: "k zero returns all", by: ByCreditsRemaining, k: 0, desc: false, expected: []int{2, 4, 1, 3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(reg.TopK(tt.by, tt.k, tt.desc)))
		})
	}
}

func TestRegistry_TopKSecondary(t *testing.T) {
	reg := sampleRegistry()

	// the three rosters with most credits left, ranked among themselves by points
	got := reg.TopKSecondary(ByCreditsRemaining, ByPoints, 3, true, true)
	assert.Equal(t, []int{1, 3, 5}, ids(got))

	// the cut at k=1 is decided by points between the two 4.0 rosters
	got = reg.TopKSecondary(ByCreditsRemaining, ByPoints, 1, true, true)
	assert.Equal(t, []int{3}, ids(got))

	// best points first, ranked among themselves by credits left
	got = reg.TopKSecondary(ByPoints, ByCreditsRemaining, 2, true, true)
	assert.Equal(t, []int{4, 2}, ids(got))

	assert.Empty(t, New().TopKSecondary(ByPoints, ByCreditsRemaining, 5, true, true))
}

func TestRegistry_ContainingAll(t *testing.T) {
	reg := sampleRegistry()

	tests := []struct {
		name     string
		names    []string
		expected []int
	}{
		{name: "single player", names: []string{"Klaasen"}, expected: []int{1, 3, 4}},
		{name: "two players", names: []string{"Head", "Boult"}, expected: []int{2, 4}},
		{name: "three players", names: []string{"Boult", "Klaasen", "Head"}, expected: []int{4}},
		{name: "disjoint players", names: []string{"Parag", "Head"}, expected: []int{}},
		{name: "unknown player", names: []string{"Head", "Kohli"}, expected: []int{}},
		{name: "no names", names: nil, expected: []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(reg.ContainingAll(tt.names...)))
		})
	}
}

func TestRegistry_ContainingAllMatchesFilter(t *testing.T) {
	reg := sampleRegistry()
	for _, name := range []string{"Head", "Klaasen", "Samson", "Boult", "Chahal"} {
		var expected []int
		for _, e := range reg.All() {
			if e.Contains(name) {
				expected = append(expected, e.ID)
			}
		}
		assert.Equal(t, expected, ids(reg.ContainingAll(name)), name)
	}
}

func TestRegistry_ResultsAreCopies(t *testing.T) {
	reg := sampleRegistry()
	all := reg.All()
	all[0].Points = -1

	e, _ := reg.Get(1)
	assert.Equal(t, 500.0, e.Points)

	list := reg.IDsFor("Head")
	list[0] = 99
	assert.Equal(t, []int{1, 2, 4}, reg.IDsFor("Head"))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Credits")
	require.NoError(t, err)
	assert.Equal(t, ByCreditsRemaining, f)

	f, err = ParseField("")
	require.NoError(t, err)
	assert.Equal(t, ByPoints, f)

	_, err = ParseField("salary")
	assert.Error(t, err)
}
