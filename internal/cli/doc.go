// Package cli implements the command-line interface for cbb-gamelogs.
//
// The cli package provides the Cobra-based CLI with three subcommands: slug turns
// school names into URL slugs, teams scrapes the active team list, and gamelogs
// scrapes per-team game logs. It wires config, logging, the scrapers and CSV
// storage together and maps outcomes to exit codes: 0 success, 1 error, 2 when
// the run finished with findings such as duplicate slugs or failed teams.
package cli
