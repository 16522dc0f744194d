// Package storage persists teams and game logs as CSV files.
//
// Everything lands in one data directory (data/basketball/raw by default): the
// teams file (d1_teams.csv, columns school_name,slug) and one
// {slug}_{season}_gamelogs.csv per team. Files are replaced atomically.
package storage
