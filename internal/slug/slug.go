// Package slug builds the unique, human-readable URL identifiers for listings.
package slug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so that e.g. "Škoda" slugs as "skoda".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify joins the given parts into a lowercase, hyphen-delimited,
// URL-safe token. Accents are folded away and every run of characters
// outside [a-z0-9] collapses into a single hyphen.
func Slugify(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "-"))
	if folded, _, err := transform.String(foldAccents, joined); err == nil {
		joined = folded
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range joined {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// Generate returns a slug for the given listing attributes that is not
// currently in use. The exists probe reports whether a candidate is already
// taken; it is supplied by the persistence layer in production and by an
// in-memory set in tests. The first free candidate among base, base-1,
// base-2, ... is returned, so the result is deterministic for a fixed base
// and a fixed set of existing slugs.
//
// The probe and the eventual commit are not atomic as a pair: a concurrent
// writer can still claim the returned slug first, in which case the store's
// uniqueness constraint is the final arbiter.
func Generate(carMake, carModel string, year int, exists func(string) (bool, error)) (string, error) {
	base := Slugify(carMake, carModel, strconv.Itoa(year))
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
