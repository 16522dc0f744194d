package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByInput SortOrder = "input"
	SortByName  SortOrder = "name"
	SortBySlug  SortOrder = "slug"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByInput, SortByName, SortBySlug:
		return true
	}
	return false
}

// sortPairs sorts pairs in place. SortByInput leaves them alone.
func sortPairs(pairs []slug.Pair, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(pairs, func(i, j int) bool {
			return strings.ToLower(pairs[i].Name) < strings.ToLower(pairs[j].Name)
		})
	case SortBySlug:
		sort.SliceStable(pairs, func(i, j int) bool {
			if pairs[i].Slug != pairs[j].Slug {
				return pairs[i].Slug < pairs[j].Slug
			}
			// Colliding slugs keep a stable, readable order
			return strings.ToLower(pairs[i].Name) < strings.ToLower(pairs[j].Name)
		})
	}
}
