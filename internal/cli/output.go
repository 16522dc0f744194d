package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/cbb-gamelogs/internal/roster"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Report is the result of a subcommand.
type Report interface {
	writeText(w io.Writer, verbose bool) error
}

// SlugReport is the result of the slug command.
type SlugReport struct {
	Mode       slug.Mode        `json:"mode"`
	Total      int              `json:"total"`
	Unique     int              `json:"unique"`
	Pairs      []slug.Pair      `json:"pairs"`
	Duplicates []slug.Collision `json:"duplicates"`
	Empty      []string         `json:"empty,omitempty"`
	Path       string           `json:"path,omitempty"`
}

// TeamsReport is the result of the teams command.
type TeamsReport struct {
	Season     int              `json:"season"`
	Found      int              `json:"found"`
	Teams      []roster.Team    `json:"teams"`
	Path       string           `json:"path"`
	Duplicates []slug.Collision `json:"duplicates"`
}

// FailedTeam is a team the gamelogs command could not scrape.
type FailedTeam struct {
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// GamelogsReport is the result of the gamelogs command.
type GamelogsReport struct {
	Season  int               `json:"season"`
	Games   int               `json:"games"`
	Written map[string]string `json:"written"`
	Failed  []FailedTeam      `json:"failed,omitempty"`
}

// WriteOutput writes the report in the specified format
func WriteOutput(w io.Writer, report Report, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return report.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (r *SlugReport) writeText(w io.Writer, verbose bool) error {
	if r.Total == 0 {
		fmt.Fprintln(w, "No names given.")
		return nil
	}

	fmt.Fprintf(w, "%-40s -> %s\n", "School Name", "Slug")
	fmt.Fprintln(w, "===========================================================================")
	for _, p := range r.Pairs {
		fmt.Fprintf(w, "%-40s -> %s\n", p.Name, p.Slug)
	}

	fmt.Fprintf(w, "\nTotal: %d names, %d unique slugs (%s rule)\n", r.Total, r.Unique, r.Mode)
	writeDuplicates(w, r.Duplicates)

	if len(r.Empty) > 0 {
		fmt.Fprintf(w, "\n%d names produced an empty slug:\n", len(r.Empty))
		for _, name := range r.Empty {
			fmt.Fprintf(w, "  %q\n", name)
		}
	}
	if r.Path != "" {
		fmt.Fprintf(w, "Saved to: %s\n", r.Path)
	}
	return nil
}

func (r *TeamsReport) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Teams for season %d: %d (of %d schools found)\n", r.Season, len(r.Teams), r.Found)

	if verbose {
		for _, t := range r.Teams {
			fmt.Fprintf(w, "  %-40s -> %s\n", t.Name, t.Slug)
		}
	}

	writeDuplicates(w, r.Duplicates)
	fmt.Fprintf(w, "Saved to: %s\n", r.Path)
	return nil
}

func (r *GamelogsReport) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Season %d: %d teams saved, %d games", r.Season, len(r.Written), r.Games)
	if len(r.Failed) > 0 {
		fmt.Fprintf(w, ", %d teams failed", len(r.Failed))
	}
	fmt.Fprintln(w)

	if verbose && len(r.Written) > 0 {
		slugs := make([]string, 0, len(r.Written))
		for s := range r.Written {
			slugs = append(slugs, s)
		}
		sort.Strings(slugs)
		for _, s := range slugs {
			fmt.Fprintf(w, "  %s: %s\n", s, r.Written[s])
		}
	}

	for _, f := range r.Failed {
		fmt.Fprintf(w, "  FAILED %s: %s\n", f.Slug, f.Error)
	}
	return nil
}

func writeDuplicates(w io.Writer, collisions []slug.Collision) {
	if len(collisions) == 0 {
		fmt.Fprintln(w, "No duplicate slugs.")
		return
	}
	fmt.Fprintf(w, "\nWARNING: %d duplicate slugs:\n", len(collisions))
	for _, c := range collisions {
		fmt.Fprintf(w, "  %s:\n", c.Slug)
		for _, name := range c.Names {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
}
