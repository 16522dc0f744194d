package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/roster"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
)

type slugOptions struct {
	file   string
	column string
	mode   string
	out    string
	sort   string
}

func newSlugCmd(a *app) *cobra.Command {
	opts := &slugOptions{}

	cmd := &cobra.Command{
		Use:   "slug [names...]",
		Short: "Convert school names to sports-reference URL slugs",
		Long: `Convert school names to sports-reference URL slugs.

Names come from the arguments, from a CSV file (--file, --column), or one per
line on stdin. Duplicate slugs are reported and make the command exit 2.`,
		Example: `  cbb-gamelogs slug "Miami (FL)" "Saint Mary's (CA)"
  cbb-gamelogs slug --file SchoolNames.csv --out d1_teams.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSlug(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV file with a header row to read names from")
	cmd.Flags().StringVar(&opts.column, "column", roster.DefaultColumn, "Column holding school names in --file")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Slug rule: canonical or simple (default from config)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write school_name,slug CSV to this file in the data directory")
	cmd.Flags().StringVar(&opts.sort, "sort", string(SortByInput), "Sort order: input, name, or slug")

	return cmd
}

func (a *app) runSlug(cmd *cobra.Command, args []string, opts *slugOptions) error {
	order := SortOrder(strings.ToLower(opts.sort))
	if !order.valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'input', 'name' or 'slug')", opts.sort)
	}

	if opts.mode != "" {
		a.cfg.SlugMode = slug.Mode(opts.mode)
	}
	fn, err := a.cfg.SlugFunc()
	if err != nil {
		return err
	}

	names, err := readNames(cmd.InOrStdin(), args, opts.file, opts.column)
	if err != nil {
		return err
	}
	logger.Info("generating slugs", logger.Fields{"names": len(names), "mode": a.cfg.SlugMode})

	pairs := slug.Apply(names, fn)
	sortPairs(pairs, order)

	report := &SlugReport{
		Mode:       a.cfg.SlugMode,
		Total:      len(pairs),
		Unique:     slug.Unique(pairs),
		Pairs:      pairs,
		Duplicates: slug.Duplicates(pairs),
		Empty:      slug.Empty(pairs),
	}
	logger.SetGauge("slugs.total", float64(report.Total))
	logger.SetGauge("slugs.unique", float64(report.Unique))

	for _, name := range report.Empty {
		logger.Warn("name produced an empty slug", logger.Fields{"name": name})
	}
	for _, c := range report.Duplicates {
		logger.Warn("duplicate slug", logger.Fields{"slug": c.Slug, "names": c.Names})
	}

	if opts.out != "" {
		store, err := a.storage()
		if err != nil {
			return err
		}
		path, err := store.WritePairs(opts.out, pairs)
		if err != nil {
			return fmt.Errorf("saving slugs: %w", err)
		}
		report.Path = path
		logger.Info("saved slugs", logger.Fields{"path": path, "rows": len(pairs)})
	}

	if err := WriteOutput(cmd.OutOrStdout(), report, a.output, a.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.Duplicates) > 0 {
		return &FindingsError{Summary: fmt.Sprintf("found %d duplicate slugs", len(report.Duplicates))}
	}
	return nil
}

// readNames returns names from args, else from a CSV file, else one per
// line from stdin.
func readNames(stdin io.Reader, args []string, file, column string) ([]string, error) {
	if len(args) > 0 && file != "" {
		return nil, fmt.Errorf("pass names as arguments or --file, not both")
	}
	if len(args) > 0 {
		return args, nil
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening names file: %w", err)
		}
		defer f.Close()

		names, err := roster.LoadNames(f, column)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		return names, nil
	}

	names := make([]string, 0)
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return names, nil
}
