package services

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
	"github.com/stitts-dev/dfs-dreamteam/internal/registry"
)

// Distribution summarizes one roster value across a run
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// Summary is the reportable view of a run
type Summary struct {
	RunID            string           `json:"run_id"`
	Match            optimizer.Match  `json:"match"`
	Players          int              `json:"players"`
	Rosters          int              `json:"rosters"`
	Templates        []TemplateResult `json:"templates"`
	Points           Distribution     `json:"points"`
	CreditsRemaining Distribution     `json:"credits_remaining"`
	Exposure         map[string]int   `json:"exposure"`
	Elapsed          time.Duration    `json:"elapsed_ns"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Summary computes value distributions and player exposure over every roster
func (r *Run) Summary() Summary {
	entries := r.Registry.All()
	points := make([]float64, len(entries))
	credits := make([]float64, len(entries))
	for i, e := range entries {
		points[i] = e.Points
		credits[i] = e.CreditsRemaining
	}

	exposure := make(map[string]int)
	for _, role := range optimizer.DefaultRoleOrder {
		for _, p := range r.Pool.Role(role) {
			if n := len(r.Registry.IDsFor(p.Name)); n > 0 {
				exposure[p.Name] = n
			}
		}
	}

	return Summary{
		RunID:            r.ID,
		Match:            r.Match,
		Players:          r.Pool.Size(),
		Rosters:          len(entries),
		Templates:        r.Templates,
		Points:           distribution(points),
		CreditsRemaining: distribution(credits),
		Exposure:         exposure,
		Elapsed:          r.Elapsed,
		CreatedAt:        r.CreatedAt,
	}
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// RoleLine lists the names filling one role
type RoleLine struct {
	Role    optimizer.Role `json:"role"`
	Players []string       `json:"players"`
}

// RosterReport is how a saved roster is reported
type RosterReport struct {
	ID               int            `json:"id"`
	Template         string         `json:"template"`
	Points           float64        `json:"points"`
	CreditsRemaining float64        `json:"credits_remaining"`
	Teams            map[string]int `json:"teams"`
	Lineup           []RoleLine     `json:"lineup"`
}

// NewRosterReport flattens a registry entry into names per role
func NewRosterReport(e registry.Entry) RosterReport {
	lineup := make([]RoleLine, 0, len(e.Lineup))
	for _, group := range e.Lineup {
		names := make([]string, len(group.Players))
		for i, p := range group.Players {
			names[i] = p.Name
		}
		lineup = append(lineup, RoleLine{Role: group.Role, Players: names})
	}
	return RosterReport{
		ID:               e.ID,
		Template:         e.Template,
		Points:           e.Points,
		CreditsRemaining: e.CreditsRemaining,
		Teams:            e.TeamCounts(),
		Lineup:           lineup,
	}
}

// Reports converts a ranked slice of entries
func Reports(entries []registry.Entry) []RosterReport {
	out := make([]RosterReport, len(entries))
	for i, e := range entries {
		out[i] = NewRosterReport(e)
	}
	return out
}
