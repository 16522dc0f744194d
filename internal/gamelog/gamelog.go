// Package gamelog scrapes per-team game-log tables from sports-reference.com.
//
// A team's season lives at /cbb/schools/{slug}/men/{season}-gamelogs.html. The
// table id on that page has changed over the years, so Parse tries several known
// ids before falling back to the first table with class "stats_table".
package gamelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/logger"
	"github.com/pfrederiksen/cbb-gamelogs/internal/table"
)

const (
	BaseURL         = "https://www.sports-reference.com"
	DefaultDelay    = 2 * time.Second
	ScrapedAtLayout = "2006-01-02 15:04:05"
)

// TableIDs are tried in order when locating the game-log table.
var TableIDs = []string{"sgl-basic", "gamelog", "games", "schedule"}

// ErrTableNotFound is returned when no game-log table is on the page.
var ErrTableNotFound = errors.New("game log table not found")

// Log is one team's game log for a season.
type Log struct {
	Slug      string
	Season    int
	ScrapedAt time.Time
	*table.Table
}

// MetaColumns are appended to every record by Records.
var MetaColumns = []string{"school_slug", "season", "scraped_at"}

// Header returns the table columns followed by MetaColumns.
func (l *Log) Header() []string {
	header := make([]string, 0, len(l.Columns)+len(MetaColumns))
	header = append(header, l.Columns...)
	return append(header, MetaColumns...)
}

// Records returns each game row with slug, season and scrape time appended.
func (l *Log) Records() [][]string {
	season := fmt.Sprintf("%d", l.Season)
	scraped := l.ScrapedAt.Format(ScrapedAtLayout)

	records := make([][]string, len(l.Rows))
	for i, row := range l.Rows {
		rec := make([]string, 0, len(row)+len(MetaColumns))
		rec = append(rec, row...)
		records[i] = append(rec, l.Slug, season, scraped)
	}
	return records
}

// URL builds the game-log page address for a team and season.
func URL(base, slug string, season int) string {
	return fmt.Sprintf("%s/cbb/schools/%s/men/%d-gamelogs.html", strings.TrimRight(base, "/"), slug, season)
}

// Parse finds the game-log table in a page and extracts it.
func Parse(r io.Reader) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tables := table.Describe(doc)
	logger.Debug("tables on page", logger.Fields{"count": len(tables), "tables": tables})

	sel := find(doc)
	if sel == nil {
		return nil, ErrTableNotFound
	}
	return table.Extract(sel), nil
}

func find(doc *goquery.Document) *goquery.Selection {
	for _, id := range TableIDs {
		if sel := doc.Find("table#" + id).First(); sel.Length() > 0 {
			logger.Debug("found game log table", logger.Fields{"id": id})
			return sel
		}
	}
	if sel := doc.Find("table.stats_table").First(); sel.Length() > 0 {
		logger.Debug("found game log table", logger.Fields{"class": "stats_table"})
		return sel
	}
	return nil
}

// Scraper fetches game logs.
type Scraper struct {
	client *fetch.Client
	base   string
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at another host.
func WithBaseURL(base string) Option {
	return func(s *Scraper) {
		s.base = base
	}
}

// New creates a Scraper using client for HTTP.
func New(client *fetch.Client, opts ...Option) *Scraper {
	s := &Scraper{
		client: client,
		base:   BaseURL,
		now:    time.Now,
		sleep:  sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads and parses one team's game log.
func (s *Scraper) Fetch(ctx context.Context, slug string, season int) (*Log, error) {
	url := URL(s.base, slug, season)
	logger.Info("scraping game log", logger.Fields{"slug": slug, "season": season, "url": url})

	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", slug, err)
	}
	defer body.Close()

	tbl, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", slug, err)
	}

	logger.Info("extracted games", logger.Fields{"slug": slug, "games": len(tbl.Rows), "columns": tbl.Columns})
	logger.AddCounter("gamelog.games", int64(len(tbl.Rows)))

	return &Log{
		Slug:      slug,
		Season:    season,
		ScrapedAt: s.now(),
		Table:     tbl,
	}, nil
}

// TeamError records a team that could not be scraped.
type TeamError struct {
	Slug string
	Err  error
}

func (e *TeamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Slug, e.Err)
}

func (e *TeamError) Unwrap() error {
	return e.Err
}

// FetchAll scrapes slugs one at a time, waiting delay between requests. A
// failing team is logged and skipped. handle, if non-nil, is called with each
// log as soon as it is fetched; an error from handle is recorded for that team.
// FetchAll stops early when ctx is done and returns ctx.Err() as the last error.
func (s *Scraper) FetchAll(ctx context.Context, slugs []string, season int, delay time.Duration, handle func(*Log) error) (map[string]*Log, []error) {
	logs := make(map[string]*Log, len(slugs))
	var errs []error

	for i, slug := range slugs {
		logger.Info("processing team", logger.Fields{"team": i + 1, "total": len(slugs), "slug": slug})

		log, err := s.Fetch(ctx, slug, season)
		if err == nil && handle != nil {
			err = handle(log)
		}

		switch {
		case err != nil && ctx.Err() != nil:
			return logs, append(errs, ctx.Err())
		case err != nil:
			logger.IncrCounter("gamelog.failed")
			logger.Error("team failed", logger.Fields{"slug": slug}, err)
			errs = append(errs, &TeamError{Slug: slug, Err: err})
		default:
			logger.IncrCounter("gamelog.fetched")
			logs[slug] = log
		}

		if i < len(slugs)-1 && delay > 0 {
			logger.Debug("waiting before next request", logger.Fields{"delay": delay.String()})
			if err := s.sleep(ctx, delay); err != nil {
				return logs, append(errs, err)
			}
		}
	}

	return logs, errs
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
