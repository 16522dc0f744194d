package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cbb-gamelogs/internal/gamelog"
	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/storage"
)

type gamelogsOptions struct {
	season int
	teams  string
	delay  time.Duration
	limit  int
}

func newGamelogsCmd(a *app) *cobra.Command {
	opts := &gamelogsOptions{}

	cmd := &cobra.Command{
		Use:   "gamelogs [slugs...]",
		Short: "Scrape per-team game logs",
		Long: `Scrape game logs for the given team slugs, or for every team in the teams
file, and save one CSV per team. Requests are made one at a time with a delay
in between. Teams that fail are reported and make the command exit 2.`,
		Example: `  cbb-gamelogs gamelogs iowa-state --season 2025
  cbb-gamelogs gamelogs --teams d1_teams.csv --delay 3s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("season") {
				a.cfg.Season = opts.season
			}
			if cmd.Flags().Changed("delay") {
				a.cfg.Delay = &opts.delay
			}
			return a.runGamelogs(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.season, "season", 0, "Season year, e.g. 2026 for 2025-26 (default from config)")
	cmd.Flags().StringVar(&opts.teams, "teams", storage.DefaultTeamsFile, "Teams CSV in the data directory, used when no slugs are given")
	cmd.Flags().DurationVar(&opts.delay, "delay", gamelog.DefaultDelay, "Wait between requests")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Only scrape the first N teams (0 for all)")

	return cmd
}

func (a *app) runGamelogs(cmd *cobra.Command, args []string, opts *gamelogsOptions) error {
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	if a.cfg.DelayDuration() < 0 {
		return fmt.Errorf("--delay must not be negative")
	}

	store, err := a.storage()
	if err != nil {
		return err
	}

	slugs := args
	if len(slugs) == 0 {
		slugs, err = store.ReadSlugs(opts.teams)
		if err != nil {
			return fmt.Errorf("loading team slugs: %w", err)
		}
	}
	slugs = dedupe(slugs)
	if opts.limit > 0 && opts.limit < len(slugs) {
		slugs = slugs[:opts.limit]
	}
	if len(slugs) == 0 {
		return fmt.Errorf("no teams to scrape")
	}

	logger.Info("scraping game logs", logger.Fields{
		"teams":  len(slugs),
		"season": a.cfg.Season,
		"delay":  a.cfg.DelayDuration().String(),
	})

	report := &GamelogsReport{
		Season:  a.cfg.Season,
		Written: make(map[string]string),
	}

	save := func(l *gamelog.Log) error {
		path, err := store.WriteGameLog(l)
		if err != nil {
			return fmt.Errorf("saving game log: %w", err)
		}
		logger.Info("saved game log", logger.Fields{"slug": l.Slug, "path": path, "games": len(l.Rows)})
		report.Written[l.Slug] = path
		report.Games += len(l.Rows)
		return nil
	}

	scraper := gamelog.New(a.fetchClient(), gamelog.WithBaseURL(a.cfg.BaseURL))
	_, errs := scraper.FetchAll(cmd.Context(), slugs, a.cfg.Season, a.cfg.DelayDuration(), save)

	for _, err := range errs {
		var teamErr *gamelog.TeamError
		if !errors.As(err, &teamErr) {
			return fmt.Errorf("scrape interrupted: %w", err)
		}
		report.Failed = append(report.Failed, FailedTeam{Slug: teamErr.Slug, Error: teamErr.Err.Error()})
	}
	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].Slug < report.Failed[j].Slug
	})

	if err := WriteOutput(cmd.OutOrStdout(), report, a.output, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.Failed) > 0 {
		return &FindingsError{Summary: fmt.Sprintf("%d of %d teams failed", len(report.Failed), len(slugs))}
	}
	return nil
}

// dedupe drops repeated slugs, keeping the first occurrence of each.
func dedupe(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
