package optimizer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SearchParallel produces the same rosters as Search, fanning out across the
// candidate subsets of the first role. Each branch owns its own PartialRoster.
// Calls to yield are serialized, so yield may write to non-thread-safe state.
func (b *Builder) SearchParallel(ctx context.Context, pool *Pool, tmpl RoleTemplate, workers int, yield func(CompletedRoster) bool) (SearchStats, error) {
	if workers <= 1 {
		return b.Search(pool, tmpl, yield)
	}

	start := time.Now()
	p, err := b.newPlan(pool, tmpl)
	if err != nil {
		return SearchStats{}, err
	}
	if p.skipped() {
		return p.stats, nil
	}

	var (
		emitMu  sync.Mutex
		statsMu sync.Mutex
		halted  atomic.Bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	stopped := func() bool {
		return halted.Load() || gctx.Err() != nil
	}
	emit := func(roster CompletedRoster) bool {
		emitMu.Lock()
		defer emitMu.Unlock()
		if stopped() {
			return false
		}
		if !yield(roster) {
			halted.Store(true)
			return false
		}
		return true
	}

	stats := p.stats
	for _, subset := range p.candidates[0] {
		if stopped() {
			break
		}
		subset := subset
		g.Go(func() error {
			s := p.newSearch(emit, stopped)
			s.try(NewPartialRoster(tmpl, b.rules), 0, subset)

			statsMu.Lock()
			stats.merge(s.stats)
			statsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Elapsed = time.Since(start)

	b.logger.WithFields(logrus.Fields{
		"template": tmpl.Label(),
		"workers":  workers,
		"branches": len(p.candidates[0]),
		"emitted":  stats.Emitted,
	}).Debug("Parallel search finished")

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
