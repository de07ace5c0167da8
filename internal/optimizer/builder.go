package optimizer

import (
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
)

// SearchStats describes one template search
type SearchStats struct {
	Template    string           `json:"template"`
	SearchSpace float64          `json:"search_space"`
	Candidates  map[Role]int     `json:"candidates"`
	Adopted     int64            `json:"adopted"`
	Pruned      int64            `json:"pruned"`
	Rejected    map[string]int64 `json:"rejected"`
	Emitted     int64            `json:"emitted"`
	Skipped     string           `json:"skipped,omitempty"`
	Elapsed     time.Duration    `json:"elapsed_ns"`
}

func newSearchStats(template string) SearchStats {
	return SearchStats{
		Template:   template,
		Candidates: make(map[Role]int),
		Rejected:   make(map[string]int64),
	}
}

func (s *SearchStats) merge(other SearchStats) {
	s.Adopted += other.Adopted
	s.Pruned += other.Pruned
	s.Emitted += other.Emitted
	for reason, n := range other.Rejected {
		s.Rejected[reason] += n
	}
}

// Builder enumerates every feasible roster for a role template
type Builder struct {
	rules  Rules
	logger *logrus.Entry
}

// NewBuilder creates a roster builder. A nil logger uses the global logger.
func NewBuilder(rules Rules, log *logrus.Entry) *Builder {
	if log == nil {
		log = logger.WithService("roster-builder")
	}
	return &Builder{
		rules:  rules,
		logger: log,
	}
}

// plan is everything a search needs that does not change while it runs
type plan struct {
	template   RoleTemplate
	rules      Rules
	order      []Role
	bound      PruningBound
	candidates [][][]Player
	stats      SearchStats
}

func (b *Builder) newPlan(pool *Pool, tmpl RoleTemplate) (*plan, error) {
	if !pool.Organized() {
		return nil, ErrPoolNotOrganized
	}

	log := b.logger.WithField("template", tmpl.Label())
	if err := tmpl.Validate(); err != nil {
		log.WithError(err).Warn("Skipping invalid template")
		p := &plan{template: tmpl, rules: b.rules, stats: newSearchStats(tmpl.Label())}
		p.stats.Skipped = err.Error()
		return p, nil
	}

	p := &plan{
		template: tmpl,
		rules:    b.rules,
		order:    tmpl.RoleOrder(),
		bound:    ComputeBound(pool, tmpl),
		stats:    newSearchStats(tmpl.Label()),
	}

	if tmpl.Size() != b.rules.SquadSize {
		p.stats.Skipped = "template size does not match squad size"
		log.WithFields(logrus.Fields{
			"template_size": tmpl.Size(),
			"squad_size":    b.rules.SquadSize,
		}).Debug("Template can never complete a roster")
		return p, nil
	}
	if !p.bound.Feasible() {
		p.stats.Skipped = "not enough " + string(p.bound.ShortRole()) + " players"
		log.WithField("role", p.bound.ShortRole()).Debug("Pool cannot fill role quota")
		return p, nil
	}
	if p.bound.Total() > b.rules.Budget+creditEpsilon {
		p.stats.Skipped = "cheapest roster exceeds budget"
		log.WithField("cheapest_total", p.bound.Total()).Debug("Template cannot fit the budget")
		return p, nil
	}

	p.stats.SearchSpace = 1
	p.candidates = make([][][]Player, len(p.order))
	for i, role := range p.order {
		players := pool.Role(role)
		quota := tmpl.Quota(role)
		p.stats.SearchSpace *= float64(combin.Binomial(len(players), quota))
		p.candidates[i] = roleSubsets(players, quota, b.rules.DistinctPlayers)
		p.stats.Candidates[role] = len(p.candidates[i])
	}

	log.WithFields(logrus.Fields{
		"search_space": p.stats.SearchSpace,
		"candidates":   p.stats.Candidates,
		"bound_total":  p.bound.Total(),
	}).Debug("Search plan ready")

	return p, nil
}

func (p *plan) skipped() bool {
	return p.candidates == nil
}

// Search emits every feasible roster for the template through yield, in
// depth-first order. Returning false from yield stops the search.
func (b *Builder) Search(pool *Pool, tmpl RoleTemplate, yield func(CompletedRoster) bool) (SearchStats, error) {
	start := time.Now()
	p, err := b.newPlan(pool, tmpl)
	if err != nil {
		return SearchStats{}, err
	}
	if p.skipped() {
		return p.stats, nil
	}

	s := p.newSearch(yield, nil)
	s.descend(NewPartialRoster(tmpl, b.rules), 0)

	stats := p.stats
	stats.merge(s.stats)
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// search is the mutable state of one depth-first walk
type search struct {
	plan    *plan
	yield   func(CompletedRoster) bool
	stopped func() bool
	stats   SearchStats
}

func (p *plan) newSearch(yield func(CompletedRoster) bool, stopped func() bool) *search {
	return &search{
		plan:    p,
		yield:   yield,
		stopped: stopped,
		stats:   newSearchStats(p.stats.Template),
	}
}

// descend tries every candidate subset for the role at depth. It returns false
// once the consumer asked to stop.
func (s *search) descend(pr *PartialRoster, depth int) bool {
	if s.stopped != nil && s.stopped() {
		return false
	}
	if depth == len(s.plan.order) {
		if !pr.Complete() {
			return true
		}
		s.stats.Emitted++
		return s.yield(pr.Snapshot())
	}

	for _, subset := range s.plan.candidates[depth] {
		if !s.try(pr, depth, subset) {
			return false
		}
	}
	return true
}

// try adopts one subset for the role at depth, explores below it and always
// releases it again before returning.
func (s *search) try(pr *PartialRoster, depth int, subset []Player) bool {
	role := s.plan.order[depth]
	if reason := pr.Adopt(role, subset); reason != PlayerAdded {
		s.stats.Rejected[reason.String()]++
		return true
	}
	defer pr.Release()

	s.stats.Adopted++
	if !s.plan.rules.DisablePruning && s.plan.bound.Prune(role, pr.Remaining()) {
		s.stats.Pruned++
		return true
	}
	return s.descend(pr, depth+1)
}

// roleSubsets lists every k-subset of players. Unless distinct is set, a
// subset whose players match an earlier subset by value is dropped.
func roleSubsets(players []Player, k int, distinct bool) [][]Player {
	if k == 0 {
		return [][]Player{{}}
	}
	if k < 0 || k > len(players) {
		return nil
	}

	var seen map[string]struct{}
	if !distinct {
		seen = make(map[string]struct{})
	}

	subsets := make([][]Player, 0, combin.Binomial(len(players), k))
	gen := combin.NewCombinationGenerator(len(players), k)
	idx := make([]int, k)
	for gen.Next() {
		gen.Combination(idx)
		subset := make([]Player, k)
		for i, j := range idx {
			subset[i] = players[j]
		}
		if seen != nil {
			key := subsetKey(subset)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

func subsetKey(subset []Player) string {
	keys := make([]string, len(subset))
	for i, p := range subset {
		keys[i] = p.valueKey()
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}
