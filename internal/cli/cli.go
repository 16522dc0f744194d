package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cbb-gamelogs/internal/config"
	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/storage"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitFindings = 2
)

// FindingsError signals a run that completed but has something to report,
// such as duplicate slugs or teams that failed to scrape.
type FindingsError struct {
	Summary string
}

func (e *FindingsError) Error() string {
	return e.Summary
}

// app holds the global flags and the state built from them before a
// subcommand runs.
type app struct {
	configPath string
	dataDir    string
	format     string
	verbose    bool

	cfg    *config.Config
	store  *storage.Storage
	output OutputFormat
	runID  string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "cbb-gamelogs",
		Short: "Build a college basketball data set from sports-reference.com",
		Long: `A CLI tool for collecting men's college basketball data from sports-reference.com.
Converts school names to URL slugs, scrapes the active Division I team list and
downloads per-team game logs, saving everything as CSV.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory for CSV output (default from config, "+storage.DefaultDataDir+")")
	flags.StringVar(&a.format, "format", "text", "Output format: text or json")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable debug logging and print metrics at exit")

	for _, sub := range []*cobra.Command{
		newSlugCmd(a),
		newTeamsCmd(a),
		newGamelogsCmd(a),
	} {
		sub.RunE = a.finishing(sub.RunE)
		cmd.AddCommand(sub)
	}

	return cmd
}

// setup loads config, applies flag overrides and installs the run logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.output = OutputFormat(strings.ToLower(a.format))
	if a.output != FormatText && a.output != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.format)
	}

	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	} else {
		a.cfg = config.Default()
	}

	if a.dataDir != "" {
		a.cfg.DataDir = a.dataDir
	}

	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.LevelDebug
	}

	a.runID = uuid.NewString()
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{"run_id": a.runID}))

	logger.Debug("configuration loaded", logger.Fields{
		"config":    a.configPath,
		"data_dir":  a.cfg.DataDir,
		"season":    a.cfg.Season,
		"slug_mode": a.cfg.SlugMode,
		"command":   cmd.Name(),
	})
	return nil
}

// finishing wraps a subcommand so the metrics dump also runs when it fails
// or ends with findings. Cobra skips post-run hooks once RunE returns an error.
func (a *app) finishing(runE func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.finish()
		return runE(cmd, args)
	}
}

func (a *app) finish() {
	if a.verbose {
		logger.Debug("run metrics", logger.Fields(logger.GetMetricsSnapshot()))
	}
}

// storage opens the data directory on first use.
func (a *app) storage() (*storage.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) fetchClient() *fetch.Client {
	return fetch.New(a.cfg.FetchOptions()...)
}

// Execute runs the CLI and exits with ExitSuccess, ExitError or ExitFindings.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, NewRootCmd())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var findings *FindingsError
	if errors.As(err, &findings) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return ExitFindings
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitError
}
