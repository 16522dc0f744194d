package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/cbb-gamelogs/internal/gamelog"
	"github.com/pfrederiksen/cbb-gamelogs/internal/roster"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
)

const (
	DefaultDataDir   = "data/basketball/raw"
	DefaultTeamsFile = "d1_teams.csv"
)

// TeamsHeader is the header row of a teams file.
var TeamsHeader = []string{"school_name", "slug"}

// Storage writes CSV files under a data directory.
type Storage struct {
	dataDir string
}

// New creates the data directory if needed. A leading "~/" is expanded to
// the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path resolves name inside the data directory. Absolute names are returned
// unchanged.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// GameLogName returns the file name for a team's season, e.g.
// "iowa-state_2026_gamelogs.csv".
func GameLogName(slug string, season int) string {
	return fmt.Sprintf("%s_%d_gamelogs.csv", slug, season)
}

// WritePairs writes name/slug pairs with a school_name,slug header.
func (s *Storage) WritePairs(name string, pairs []slug.Pair) (string, error) {
	records := make([][]string, len(pairs))
	for i, p := range pairs {
		records[i] = []string{p.Name, p.Slug}
	}
	return s.writeCSV(name, TeamsHeader, records)
}

// WriteTeams writes teams with a school_name,slug header.
func (s *Storage) WriteTeams(name string, teams []roster.Team) (string, error) {
	return s.WritePairs(name, roster.Pairs(teams))
}

// WriteGameLog writes one team's game log to GameLogName.
func (s *Storage) WriteGameLog(log *gamelog.Log) (string, error) {
	return s.writeCSV(GameLogName(log.Slug, log.Season), log.Header(), log.Records())
}

// ReadSlugs returns the slug column of a teams file, skipping blanks.
func (s *Storage) ReadSlugs(name string) ([]string, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("opening teams file: %w", err)
	}
	defer f.Close()

	return roster.LoadNames(f, "slug")
}

// ReadPairs returns the name/slug pairs of a teams file.
func (s *Storage) ReadPairs(name string) ([]slug.Pair, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("opening teams file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	nameIdx, slugIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case TeamsHeader[0]:
			nameIdx = i
		case TeamsHeader[1]:
			slugIdx = i
		}
	}
	if nameIdx < 0 || slugIdx < 0 {
		return nil, fmt.Errorf("teams file header %v must contain %v", header, TeamsHeader)
	}

	pairs := make([]slug.Pair, 0)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		pairs = append(pairs, slug.Pair{Name: rec[nameIdx], Slug: rec[slugIdx]})
	}
	return pairs, nil
}

// writeCSV writes to a temp file in the target directory and renames it into
// place so readers never see a partial file.
func (s *Storage) writeCSV(name string, header []string, records [][]string) (string, error) {
	path := s.Path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming %s: %w", path, err)
	}
	return path, nil
}
