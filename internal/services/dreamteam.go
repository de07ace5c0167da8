package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
	"github.com/stitts-dev/dfs-dreamteam/internal/registry"
	"github.com/stitts-dev/dfs-dreamteam/pkg/config"
	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
)

var (
	ErrInvalidRequest = errors.New("invalid build request")
	ErrRunNotFound    = errors.New("run not found")
)

// Options tune a single build
type Options struct {
	Workers         int   `json:"workers"`
	DistinctPlayers *bool `json:"distinct_players,omitempty"`
	DisablePruning  bool  `json:"disable_pruning"`
}

// BuildRequest is everything needed to enumerate the rosters of a match
type BuildRequest struct {
	Match     optimizer.Match          `json:"match" binding:"required"`
	Players   []optimizer.Player       `json:"players" binding:"required,min=1"`
	Templates []optimizer.RoleTemplate `json:"templates,omitempty"`
	Options   Options                  `json:"options"`
}

// TemplateResult records what one template contributed to a run
type TemplateResult struct {
	Template string                `json:"template"`
	Rosters  int                   `json:"rosters"`
	FirstID  int                   `json:"first_id,omitempty"`
	Stats    optimizer.SearchStats `json:"stats"`
}

// Run owns the pool and registry of one build
type Run struct {
	ID        string           `json:"id"`
	Match     optimizer.Match  `json:"match"`
	Rules     optimizer.Rules  `json:"rules"`
	Workers   int              `json:"workers"`
	Templates []TemplateResult `json:"templates"`
	CreatedAt time.Time        `json:"created_at"`
	Elapsed   time.Duration    `json:"elapsed_ns"`

	Pool     *optimizer.Pool    `json:"-"`
	Registry *registry.Registry `json:"-"`
}

// DreamTeamService builds rosters and keeps the most recent runs in memory
type DreamTeamService struct {
	rules   optimizer.Rules
	workers int
	maxRuns int

	mu    sync.RWMutex
	runs  map[string]*Run
	order []string

	logger *logrus.Entry
}

// NewDreamTeamService creates a service using the roster limits from config
func NewDreamTeamService(cfg *config.Config) *DreamTeamService {
	return &DreamTeamService{
		rules:   RulesFromConfig(cfg),
		workers: cfg.SearchWorkers,
		maxRuns: cfg.MaxStoredRuns,
		runs:    make(map[string]*Run),
		logger:  logger.WithService("dreamteam-service"),
	}
}

// RulesFromConfig converts the roster section of the config
func RulesFromConfig(cfg *config.Config) optimizer.Rules {
	return optimizer.Rules{
		Budget:          cfg.Budget,
		SquadSize:       cfg.SquadSize,
		MaxPerTeam:      cfg.MaxPerTeam,
		DistinctPlayers: cfg.DistinctPlayers,
	}
}

// Rules returns the default limits applied to every build
func (s *DreamTeamService) Rules() optimizer.Rules {
	return s.rules
}

// Build organizes the players into a pool and searches every template,
// saving each roster into a fresh registry. onRoster, when set, sees every
// entry right after it is saved. Templates that cannot produce a roster are
// recorded with zero rosters and the build continues.
func (s *DreamTeamService) Build(ctx context.Context, req BuildRequest, onRoster func(registry.Entry)) (*Run, error) {
	start := time.Now()

	pool, err := s.newPool(req)
	if err != nil {
		return nil, err
	}

	rules := s.rules
	if req.Options.DistinctPlayers != nil {
		rules.DistinctPlayers = *req.Options.DistinctPlayers
	}
	rules.DisablePruning = req.Options.DisablePruning

	workers := s.workers
	if req.Options.Workers > 0 {
		workers = req.Options.Workers
	}

	templates := req.Templates
	if len(templates) == 0 {
		templates = optimizer.DefaultTemplates()
	}
	for _, tmpl := range templates {
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	run := &Run{
		ID:        uuid.New().String(),
		Match:     req.Match,
		Rules:     rules,
		Workers:   workers,
		Templates: make([]TemplateResult, 0, len(templates)),
		CreatedAt: start,
		Pool:      pool,
		Registry:  registry.New(),
	}

	log := logger.WithRunContext(run.ID, req.Match.Home, req.Match.Away)
	log.WithFields(logrus.Fields{
		"players":   pool.Size(),
		"templates": len(templates),
		"workers":   workers,
		"budget":    rules.Budget,
	}).Info("Starting roster build")

	builder := optimizer.NewBuilder(rules, log)
	for _, tmpl := range templates {
		result, err := s.searchTemplate(ctx, builder, run, tmpl, onRoster)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", tmpl.Label(), err)
		}
		run.Templates = append(run.Templates, result)
	}
	run.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"rosters":  run.Registry.Len(),
		"duration": run.Elapsed,
	}).Info("Roster build completed")

	s.store(run)
	return run, nil
}

func (s *DreamTeamService) newPool(req BuildRequest) (*optimizer.Pool, error) {
	if err := req.Match.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(req.Players) == 0 {
		return nil, fmt.Errorf("%w: no players supplied", ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(req.Players))
	for _, p := range req.Players {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: player %q listed twice", ErrInvalidRequest, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	pool := optimizer.NewPool(req.Match)
	if err := pool.AddPlayers(req.Players); err != nil {
		return nil, err
	}
	pool.Organize()
	return pool, nil
}

func (s *DreamTeamService) searchTemplate(ctx context.Context, builder *optimizer.Builder, run *Run, tmpl optimizer.RoleTemplate, onRoster func(registry.Entry)) (TemplateResult, error) {
	result := TemplateResult{Template: tmpl.Label()}

	yield := func(roster optimizer.CompletedRoster) bool {
		id := run.Registry.Save(roster)
		if result.FirstID == 0 {
			result.FirstID = id
		}
		result.Rosters++
		if onRoster != nil {
			onRoster(registry.Entry{ID: id, CompletedRoster: roster})
		}
		return ctx.Err() == nil
	}

	var (
		stats optimizer.SearchStats
		err   error
	)
	if run.Workers > 1 {
		stats, err = builder.SearchParallel(ctx, run.Pool, tmpl, run.Workers, yield)
	} else {
		stats, err = builder.Search(run.Pool, tmpl, yield)
	}
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	result.Stats = stats

	log := logger.WithTemplate(run.ID, tmpl.Label())
	if stats.Skipped != "" {
		log.WithField("reason", stats.Skipped).Info("Template produced no rosters")
		return result, nil
	}
	log.WithFields(logrus.Fields{
		"rosters":      result.Rosters,
		"search_space": stats.SearchSpace,
		"pruned":       stats.Pruned,
		"duration":     stats.Elapsed,
	}).Info("Template search finished")
	return result, nil
}

// store keeps the run, evicting the oldest once maxRuns is exceeded
func (s *DreamTeamService) store(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	for s.maxRuns > 0 && len(s.order) > s.maxRuns {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
		s.logger.WithField("run_id", oldest).Debug("Evicted stored run")
	}
}

// Get returns a stored run
func (s *DreamTeamService) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// Runs returns the IDs of the stored runs, oldest first
func (s *DreamTeamService) Runs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
