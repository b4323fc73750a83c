// Package slug derives URL-safe identifiers from human-readable titles
// and resolves collisions against an existence oracle.
package slug

import (
	"strconv"
	"unicode"
)

// Make converts a title to its slug base.
//
// Rules: lowercase; letters, digits, underscores and hyphens are kept;
// each run of whitespace becomes a single hyphen; everything else is
// dropped. A symbol-only title yields the empty string, which callers
// must reject before assignment.
func Make(title string) string {
	out := make([]rune, 0, len(title))
	pendingHyphen := false
	for _, r := range title {
		switch {
		case unicode.IsSpace(r):
			if len(out) > 0 {
				pendingHyphen = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			if pendingHyphen {
				out = append(out, '-')
				pendingHyphen = false
			}
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// Assign returns a slug for title that the oracle does not know about.
// If the base is taken it probes base-1, base-2, ... until exists
// reports false. The probe loop is unbounded; at blog scale the number
// of same-titled posts keeps it short.
//
// Assign is purely functional given the oracle. The check-then-insert
// sequence is not atomic, so callers persist behind a unique constraint
// and retry on collision.
func Assign(title string, exists func(candidate string) bool) string {
	base := Make(title)
	if !exists(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !exists(candidate) {
			return candidate
		}
	}
}
