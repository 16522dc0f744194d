// Package slug converts school names into sports-reference URL slugs.
//
// Two rule sets live here. Generate is the canonical one: it resolves a
// parenthesized state code into a "-xx" suffix ("Miami (FL)" becomes "miami-fl"),
// drops descriptive parentheticals, folds possessives and ampersands, and reduces
// everything else to lowercase ASCII letters, digits and single hyphens. Simple is
// the older, looser rule that only lowercases, strips punctuation and hyphenates
// whitespace. The two disagree on names with parentheses, apostrophes or
// ampersands and are never expected to agree.
//
// Both functions are pure and safe to call from any goroutine.
package slug
