package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/roster"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
	"github.com/pfrederiksen/cbb-gamelogs/internal/storage"
)

type teamsOptions struct {
	season   int
	out      string
	fromFile string
	all      bool
}

func newTeamsCmd(a *app) *cobra.Command {
	opts := &teamsOptions{}

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Scrape the active Division I team list",
		Long: `Scrape the sports-reference schools index, keep teams active in the given
season and save them with their slugs as CSV.`,
		Example: `  cbb-gamelogs teams --season 2026
  cbb-gamelogs teams --from-file schools.html --out d1_teams.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("season") {
				a.cfg.Season = opts.season
			}
			return a.runTeams(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.season, "season", 0, "Season year, e.g. 2026 for 2025-26 (default from config)")
	cmd.Flags().StringVar(&opts.out, "out", storage.DefaultTeamsFile, "Output file in the data directory")
	cmd.Flags().StringVar(&opts.fromFile, "from-file", "", "Parse a saved schools page instead of fetching it")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Keep every school, not only active ones")

	return cmd
}

func (a *app) runTeams(cmd *cobra.Command, opts *teamsOptions) error {
	fn, err := a.cfg.SlugFunc()
	if err != nil {
		return err
	}

	scraper := roster.New(a.fetchClient(), roster.WithBaseURL(a.cfg.BaseURL), roster.WithSlugFunc(fn))

	var teams []roster.Team
	if opts.fromFile != "" {
		f, err := os.Open(opts.fromFile)
		if err != nil {
			return fmt.Errorf("opening schools page: %w", err)
		}
		defer f.Close()
		teams, err = scraper.Parse(f)
		if err != nil {
			return fmt.Errorf("parsing schools page: %w", err)
		}
	} else {
		teams, err = scraper.FetchTeams(cmd.Context())
		if err != nil {
			return err
		}
	}

	total := len(teams)
	if !opts.all {
		teams = roster.Active(teams, a.cfg.Season)
		logger.Info("filtered to active teams", logger.Fields{"season": a.cfg.Season, "total": total, "active": len(teams)})
	}
	logger.SetGauge("teams.active", float64(len(teams)))

	store, err := a.storage()
	if err != nil {
		return err
	}
	path, err := store.WriteTeams(opts.out, teams)
	if err != nil {
		return fmt.Errorf("saving teams: %w", err)
	}
	logger.Info("saved teams", logger.Fields{"path": path, "teams": len(teams)})

	pairs := roster.Pairs(teams)
	report := &TeamsReport{
		Season:     a.cfg.Season,
		Found:      total,
		Teams:      teams,
		Path:       path,
		Duplicates: slug.Duplicates(pairs),
	}
	for _, c := range report.Duplicates {
		logger.Warn("duplicate slug", logger.Fields{"slug": c.Slug, "names": c.Names})
	}

	if err := WriteOutput(cmd.OutOrStdout(), report, a.output, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.Duplicates) > 0 {
		return &FindingsError{Summary: fmt.Sprintf("found %d duplicate slugs", len(report.Duplicates))}
	}
	return nil
}
