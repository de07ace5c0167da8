package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-dreamteam/internal/ingest"
	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
	"github.com/stitts-dev/dfs-dreamteam/internal/registry"
	"github.com/stitts-dev/dfs-dreamteam/internal/services"
	"github.com/stitts-dev/dfs-dreamteam/pkg/config"
	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
)

var Cmd = &cobra.Command{
	Use:   "dreamteam",
	Short: "Enumerate every valid fantasy cricket roster for a match",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all rosters from a player file and print the best of them",
	RunE:  runBuild,
}

var args struct {
	players   string
	teams     string
	templates string
	top       int
	require   []string
	sort      string
	workers   int
	distinct  bool
	noPrune   bool
	showPool  bool
	logLevel  string
}

func main() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, argv []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if args.logLevel != "" {
		level = args.logLevel
	}
	logger.InitLogger(level, cfg.IsDevelopment())

	if cmd.Flags().Changed("workers") {
		cfg.SearchWorkers = args.workers
	}
	if cmd.Flags().Changed("distinct") {
		cfg.DistinctPlayers = args.distinct
	}
	top := cfg.TopK
	if cmd.Flags().Changed("top") {
		top = args.top
	}
	primary, err := registry.ParseField(args.sort)
	if err != nil {
		return err
	}

	var match optimizer.Match
	if args.teams != "" {
		if match, err = ingest.ParseMatch(args.teams); err != nil {
			return err
		}
	}
	players, err := ingest.LoadPlayers(args.players, match)
	if err != nil {
		return err
	}
	if args.teams == "" {
		if match, err = ingest.InferMatch(players); err != nil {
			return err
		}
	}
	templates, err := ingest.LoadTemplates(args.templates)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := services.NewDreamTeamService(cfg)
	run, err := svc.Build(ctx, services.BuildRequest{
		Match:     match,
		Players:   players,
		Templates: templates,
		Options: services.Options{
			Workers:        cfg.SearchWorkers,
			DisablePruning: args.noPrune,
		},
	}, nil)
	if err != nil {
		return err
	}

	report(cmd.OutOrStdout(), run, primary, top)
	return nil
}

func report(w io.Writer, run *services.Run, primary registry.Field, top int) {
	if args.showPool {
		services.WritePool(w, run.Pool)
	}

	title := "Top rosters by points"
	if primary == registry.ByCreditsRemaining {
		title = "Top rosters by credits remaining"
	}
	services.WriteRosters(w, title, services.Reports(run.Registry.TopK(primary, top, true)))

	efficient := run.Registry.TopKSecondary(registry.ByCreditsRemaining, registry.ByPoints, top, true, true)
	services.WriteRosters(w, "Most credits left, best points first", services.Reports(efficient))

	if len(args.require) > 0 {
		matches := run.Registry.ContainingAll(args.require...)
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Points > matches[j].Points
		})
		title := fmt.Sprintf("Rosters with %s (%d found)", strings.Join(args.require, ", "), len(matches))
		if top > 0 && len(matches) > top {
			matches = matches[:top]
		}
		services.WriteRosters(w, title, services.Reports(matches))
	}

	services.WriteSummary(w, run.Summary())
}

func init() {
	flags := buildCmd.Flags()

	flags.StringVar(&args.players, "players", "", "Player file, one role,team,name,credits,points per line")
	flags.StringVar(&args.teams, "teams", "", "Match teams as HOME,AWAY (inferred from the players when empty)")
	flags.StringVar(&args.templates, "templates", "", "YAML file of role templates (default: the seven standard splits)")
	flags.IntVar(&args.top, "top", 10, "Rosters to print per ranking, 0 for all")
	flags.StringSliceVar(&args.require, "require", nil, "Only list rosters containing all of these players")
	flags.StringVar(&args.sort, "sort", "points", "Primary ranking: points or credits")
	flags.IntVar(&args.workers, "workers", 1, "Parallel search workers per template")
	flags.BoolVar(&args.distinct, "distinct", false, "Try every subset even when players are identical by value")
	flags.BoolVar(&args.noPrune, "no-prune", false, "Disable the credit lower bound (slower, same rosters)")
	flags.BoolVar(&args.showPool, "show-pool", false, "Print the organized player pool first")
	flags.StringVar(&args.logLevel, "log-level", "", "Override LOG_LEVEL")

	buildCmd.MarkFlagRequired("players")
	Cmd.AddCommand(buildCmd)
}
