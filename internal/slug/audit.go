package slug

import "sort"

// Pair ties a source name to the slug produced for it.
type Pair struct {
	Name string `json:"school_name"`
	Slug string `json:"slug"`
}

// Apply runs fn over every name, keeping input order.
func Apply(names []string, fn func(string) string) []Pair {
	pairs := make([]Pair, len(names))
	for i, name := range names {
		pairs[i] = Pair{Name: name, Slug: fn(name)}
	}
	return pairs
}

// Collision is a slug produced by more than one name.
type Collision struct {
	Slug  string   `json:"slug"`
	Names []string `json:"names"`
}

// Duplicates returns every non-empty slug shared by two or more pairs, sorted
// by slug. Names keep their input order.
func Duplicates(pairs []Pair) []Collision {
	byslug := make(map[string][]string)
	for _, p := range pairs {
		if p.Slug == "" {
			continue
		}
		byslug[p.Slug] = append(byslug[p.Slug], p.Name)
	}

	collisions := make([]Collision, 0)
	for s, names := range byslug {
		if len(names) > 1 {
			collisions = append(collisions, Collision{Slug: s, Names: names})
		}
	}
	sort.Slice(collisions, func(i, j int) bool {
		return collisions[i].Slug < collisions[j].Slug
	})
	return collisions
}

// Empty returns the names that normalized to an empty slug.
func Empty(pairs []Pair) []string {
	var names []string
	for _, p := range pairs {
		if p.Slug == "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// Unique counts distinct non-empty slugs.
func Unique(pairs []Pair) int {
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.Slug != "" {
			seen[p.Slug] = struct{}{}
		}
	}
	return len(seen)
}
