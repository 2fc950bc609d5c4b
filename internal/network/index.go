package network

import (
	"go.uber.org/zap"

	"github.com/ticketless-chicago/sweep-cli/internal/streetname"
)

// Index maps serialized canonical keys to the raw segments registered under
// them. It is built once per run and read concurrently by the resolver.
type Index struct {
	byKey map[string][]RawSegment
}

// BuildIndex normalizes every segment name and registers the segment under
// its canonical key, under every alias of its base name, and, for numbered
// base names, under the direction-less variant of the key. Network extracts
// frequently drop the direction prefix on numbered streets; the extra entry
// lets catalog records that carry it still match.
func BuildIndex(segments []RawSegment, aliases streetname.AliasTable) *Index {
	idx := &Index{byKey: make(map[string][]RawSegment)}

	var unnamed int
	for _, seg := range segments {
		key := streetname.Normalize(seg.Name)
		if key.Name == "" {
			unnamed++
			continue
		}

		keys := []streetname.Key{key}
		for _, alt := range aliases[key.Name] {
			keys = append(keys, key.WithName(alt))
		}
		if key.Dir != "" && startsWithDigit(key.Name) {
			keys = append(keys, key.WithoutDir())
		}

		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			s := k.String()
			if seen[s] {
				continue
			}
			seen[s] = true
			idx.byKey[s] = append(idx.byKey[s], seg)
		}
	}

	if unnamed > 0 {
		zap.L().Debug("network: skipped unnamed segments", zap.Int("skipped", unnamed))
	}
	return idx
}

// Lookup returns the segments registered under key, or nil.
func (idx *Index) Lookup(key streetname.Key) []RawSegment {
	return idx.byKey[key.String()]
}

// Keys returns the number of distinct lookup keys.
func (idx *Index) Keys() int {
	return len(idx.byKey)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
