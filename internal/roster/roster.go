// Package roster builds the list of active Division I teams and their slugs.
//
// Teams come either from the sports-reference schools index (table#NCAAM_schools)
// or from a local CSV with a school-name column.
package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
	"github.com/pfrederiksen/cbb-gamelogs/internal/table"
)

const (
	BaseURL       = "https://www.sports-reference.com"
	SchoolsPath   = "/cbb/schools/"
	SchoolsTable  = "NCAAM_schools"
	DefaultColumn = "School"
)

// ErrTableNotFound is returned when the schools table is missing from a page.
var ErrTableNotFound = errors.New("schools table not found")

// Team is one school from the index.
type Team struct {
	Name string `json:"school_name"`
	Slug string `json:"slug"`
	From int    `json:"from,omitempty"`
	To   int    `json:"to,omitempty"`
}

// Pair returns the team as a name/slug pair.
func (t Team) Pair() slug.Pair {
	return slug.Pair{Name: t.Name, Slug: t.Slug}
}

// Scraper fetches the schools index.
type Scraper struct {
	client *fetch.Client
	url    string
	slugFn func(string) string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at another host.
func WithBaseURL(base string) Option {
	return func(s *Scraper) {
		s.url = strings.TrimRight(base, "/") + SchoolsPath
	}
}

// WithSlugFunc replaces slug.Generate for naming teams.
func WithSlugFunc(fn func(string) string) Option {
	return func(s *Scraper) {
		if fn != nil {
			s.slugFn = fn
		}
	}
}

// New creates a Scraper using client for HTTP.
func New(client *fetch.Client, opts ...Option) *Scraper {
	s := &Scraper{
		client: client,
		url:    BaseURL + SchoolsPath,
		slugFn: slug.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTeams downloads the schools index and returns every team on it,
// slugged and sorted by name.
func (s *Scraper) FetchTeams(ctx context.Context) ([]Team, error) {
	logger.Info("fetching schools index", logger.Fields{"url": s.url})

	body, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching schools index: %w", err)
	}
	defer body.Close()

	return s.Parse(body)
}

// Parse reads a schools index page.
func (s *Scraper) Parse(r io.Reader) ([]Team, error) {
	teams, err := ParseTeams(r, s.slugFn)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed schools index", logger.Fields{"teams": len(teams)})
	return teams, nil
}

// ParseTeams extracts teams from a schools index page. fn assigns slugs; nil
// means slug.Generate.
func ParseTeams(r io.Reader, fn func(string) string) ([]Team, error) {
	if fn == nil {
		fn = slug.Generate
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	sel := doc.Find("table#" + SchoolsTable).First()
	if sel.Length() == 0 {
		logger.Debug("tables on page", logger.Fields{"tables": table.Describe(doc)})
		return nil, ErrTableNotFound
	}

	tbl := table.Extract(sel)
	school := tbl.Index("School")
	if school < 0 {
		return nil, fmt.Errorf("%w: no School column in %v", ErrTableNotFound, tbl.Columns)
	}
	from, to := tbl.Index("From"), tbl.Index("To")

	teams := make([]Team, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		name := row[school]
		if name == "" {
			continue
		}
		teams = append(teams, Team{
			Name: name,
			Slug: fn(name),
			From: cellInt(row, from),
			To:   cellInt(row, to),
		})
	}

	SortByName(teams)
	return teams, nil
}

func cellInt(row []string, i int) int {
	if i < 0 || i >= len(row) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[i]))
	if err != nil {
		return 0
	}
	return n
}

// Active keeps teams whose last season is season.
func Active(teams []Team, season int) []Team {
	active := make([]Team, 0, len(teams))
	for _, t := range teams {
		if t.To == season {
			active = append(active, t)
		}
	}
	return active
}

// SortByName orders teams alphabetically by name.
func SortByName(teams []Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
}

// Pairs converts teams to name/slug pairs for auditing.
func Pairs(teams []Team) []slug.Pair {
	pairs := make([]slug.Pair, len(teams))
	for i, t := range teams {
		pairs[i] = t.Pair()
	}
	return pairs
}

// LoadNames reads the named column from a CSV with a header row. Blank cells
// are skipped.
func LoadNames(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: empty input")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := -1
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", column, header)
	}

	names := make([]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if idx >= len(record) {
			continue
		}
		if name := strings.TrimSpace(record[idx]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
