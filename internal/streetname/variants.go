package streetname

import "strings"

// particlePrefixes are name particles that one dataset writes solid and the
// other splits ("LASALLE" vs "LA SALLE"). Longer prefixes come first so the
// solid form splits at the longest match.
var particlePrefixes = []string{"MAC", "VAN", "VON", "LA", "MC", "DE", "DU", "LE"}

// CandidateKeys returns the ordered lookup keys the resolver tries for a
// record: the direct key first, then progressively looser variants. Exact
// identity always wins over a variant match. Duplicates are dropped, order
// preserved.
func CandidateKeys(k Key) []Key {
	out := []Key{k}
	seen := map[string]bool{k.String(): true}
	add := func(c Key) {
		if c.Name == "" || seen[c.String()] {
			return
		}
		seen[c.String()] = true
		out = append(out, c)
	}

	// Numbered streets frequently appear without a direction prefix in
	// network datasets.
	if startsWithDigit(k.Name) {
		add(k.WithoutDir())
	}

	if strings.Contains(k.Name, " ") {
		add(k.WithName(strings.ReplaceAll(k.Name, " ", "")))
	}

	if split, ok := splitParticle(k.Name); ok {
		add(k.WithName(split))
	}

	// Loosest variant last: same direction and base name, any type.
	add(k.WithoutType())

	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// splitParticle inserts a space after a known particle prefix when the
// prefix is immediately followed by a letter ("LASALLE" -> "LA SALLE").
func splitParticle(name string) (string, bool) {
	for _, p := range particlePrefixes {
		if len(name) > len(p) && strings.HasPrefix(name, p) {
			next := name[len(p)]
			if next >= 'A' && next <= 'Z' {
				return name[:len(p)] + " " + name[len(p):], true
			}
		}
	}
	return "", false
}
