package slug

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	stateCodePattern    = regexp.MustCompile(`\(([A-Z]{2})\)`)
	stateCodeSpan       = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]*\([A-Z]{2}\)`)
	parentheticalSpan   = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]*\([^)]*\)`)
	whitespaceRun       = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
	nonSlugChars        = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun           = regexp.MustCompile(`-+`)
	validSlug           = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonWordSpaceHyphens = regexp.MustCompile(`[^\p{L}\p{N}_\s\v\p{Z}\x{85}\x{1c}-\x{1f}-]`)
)

// DefaultDescriptive lists names whose two-letter parenthetical is a location
// qualifier rather than a disambiguating state code.
var DefaultDescriptive = []string{
	"Albany (NY)",
}

// Generator applies the canonical slug rules. The zero value treats every
// two-letter parenthetical as a state code. A Generator is immutable once
// built and safe for concurrent use.
type Generator struct {
	descriptive map[string]struct{}
}

// Option configures a Generator.
type Option func(*Generator)

// WithDescriptive marks names whose "(XX)" qualifier is dropped instead of
// being kept as a "-xx" suffix. Names are matched after collapsing whitespace.
func WithDescriptive(names ...string) Option {
	return func(g *Generator) {
		for _, name := range names {
			g.descriptive[nameKey(name)] = struct{}{}
		}
	}
}

// New builds a Generator. Without options it has no descriptive exceptions;
// pass WithDescriptive(DefaultDescriptive...) to get the default policy.
func New(opts ...Option) *Generator {
	g := &Generator{descriptive: make(map[string]struct{})}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = New(WithDescriptive(DefaultDescriptive...))

// Generate converts a school name into a slug using the default Generator.
//
//	"Iowa State"        -> "iowa-state"
//	"Miami (FL)"        -> "miami-fl"
//	"Albany (NY)"       -> "albany"
//	"Saint Mary's (CA)" -> "saint-marys-ca"
//	"William & Mary"    -> "william-mary"
//	"St. John's"        -> "st-johns"
func Generate(name string) string {
	return defaultGenerator.Generate(name)
}

// Generate converts a school name into a slug. It never fails; empty or
// whitespace-only names produce "".
func (g *Generator) Generate(name string) string {
	s := g.parenthetical(name)

	s = strings.ToLower(s)

	s = strings.ReplaceAll(s, "'s", "s")
	s = strings.ReplaceAll(s, "'", "")

	s = strings.ReplaceAll(s, " & ", "-")

	s = strings.ReplaceAll(s, ".", "")

	s = whitespaceRun.ReplaceAllLiteralString(s, "-")
	s = nonSlugChars.ReplaceAllLiteralString(s, "")
	s = hyphenRun.ReplaceAllLiteralString(s, "-")

	return strings.Trim(s, "-")
}

// parenthetical resolves the "(...)" spans in name. The first two-letter code
// decides the branch: every "(XX)" span is then rewritten to that first code's
// "-xx" suffix. Otherwise all parentheticals are removed.
func (g *Generator) parenthetical(name string) string {
	m := stateCodePattern.FindStringSubmatch(name)
	if m != nil && !g.isDescriptive(name) {
		return stateCodeSpan.ReplaceAllLiteralString(name, "-"+strings.ToLower(m[1]))
	}
	return parentheticalSpan.ReplaceAllLiteralString(name, "")
}

func (g *Generator) isDescriptive(name string) bool {
	if g == nil || len(g.descriptive) == 0 {
		return false
	}
	_, ok := g.descriptive[nameKey(name)]
	return ok
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Simple converts a name with the older, looser rule: lowercase, drop
// everything that is not a letter, digit, underscore, whitespace or hyphen,
// then hyphenate whitespace. Letters outside ASCII are kept.
//
// Names are NFC-normalized first, so a decomposed accent keeps its letter:
// "San Jose\u0301" gives "san-jos\u00e9", where a plain word-character filter
// would drop the combining mark and give "san-jose".
func Simple(name string) string {
	s := strings.ToLower(norm.NFC.String(name))
	s = nonWordSpaceHyphens.ReplaceAllLiteralString(s, "")
	s = whitespaceRun.ReplaceAllLiteralString(s, "-")
	s = hyphenRun.ReplaceAllLiteralString(s, "-")
	return strings.Trim(s, "-")
}

// IsValid reports whether s is a non-empty slug made of lowercase ASCII
// letters, digits and single interior hyphens.
func IsValid(s string) bool {
	return validSlug.MatchString(s)
}

// Mode names a slug rule.
type Mode string

const (
	ModeCanonical Mode = "canonical"
	ModeSimple    Mode = "simple"
)

// Func returns the slug function for mode. An empty mode selects the
// canonical rule.
func Func(mode Mode) (func(string) string, error) {
	switch Mode(strings.ToLower(string(mode))) {
	case ModeCanonical, "":
		return Generate, nil
	case ModeSimple:
		return Simple, nil
	default:
		return nil, fmt.Errorf("unknown slug mode: %q (must be %q or %q)", mode, ModeCanonical, ModeSimple)
	}
}
