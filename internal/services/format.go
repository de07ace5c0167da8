package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
)

// WritePool prints the organized pool, role by role
func WritePool(w io.Writer, pool *optimizer.Pool) {
	match := pool.Match()
	fmt.Fprintf(w, "Pool: %s vs %s, %d players (%s %d, %s %d)\n",
		match.Home, match.Away, pool.Size(),
		match.Home, len(pool.Team(match.Home)), match.Away, len(pool.Team(match.Away)))
	for _, role := range optimizer.DefaultRoleOrder {
		fmt.Fprintf(w, "  %s (%d)\n", role, pool.RoleSize(role))
		for _, p := range pool.Role(role) {
			fmt.Fprintf(w, "    %-24s %-6s %5.1f cr %7.1f pts\n", p.Name, p.Team, p.Credits, p.Points)
		}
	}
}

// WriteRosters prints a titled block of roster reports
func WriteRosters(w io.Writer, title string, reports []RosterReport) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	if len(reports) == 0 {
		fmt.Fprintln(w, "  no rosters")
		return
	}
	for _, r := range reports {
		fmt.Fprintf(w, "#%-6d %-8s %7.1f pts %5.1f cr left\n", r.ID, r.Template, r.Points, r.CreditsRemaining)
		for _, line := range r.Lineup {
			if len(line.Players) == 0 {
				continue
			}
			fmt.Fprintf(w, "    %-4s %s\n", line.Role, strings.Join(line.Players, ", "))
		}
	}
}

// WriteSummary prints per-template counts and the run distributions
func WriteSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nRun %s: %s rosters from %d players in %s\n",
		s.RunID, humanize.Comma(int64(s.Rosters)), s.Players, s.Elapsed.Round(time.Millisecond))
	for _, t := range s.Templates {
		if t.Stats.Skipped != "" {
			fmt.Fprintf(w, "  %-8s skipped: %s\n", t.Template, t.Stats.Skipped)
			continue
		}
		fmt.Fprintf(w, "  %-8s %10s rosters  space %s  pruned %s\n",
			t.Template,
			humanize.Comma(int64(t.Rosters)),
			humanize.Commaf(t.Stats.SearchSpace),
			humanize.Comma(t.Stats.Pruned))
	}
	if s.Rosters == 0 {
		return
	}
	fmt.Fprintf(w, "  points   min %.1f  median %.1f  mean %.1f  max %.1f  sd %.2f\n",
		s.Points.Min, s.Points.Median, s.Points.Mean, s.Points.Max, s.Points.StdDev)
	fmt.Fprintf(w, "  credits  min %.1f  median %.1f  mean %.1f  max %.1f  sd %.2f\n",
		s.CreditsRemaining.Min, s.CreditsRemaining.Median, s.CreditsRemaining.Mean,
		s.CreditsRemaining.Max, s.CreditsRemaining.StdDev)
}
