// Package report accumulates run-end resolution diagnostics.
package report

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// UnresolvedKey groups unresolved records for diagnostics.
type UnresolvedKey struct {
	Direction  string
	StreetName string
	StreetType string
	ZoneID     string
}

// Triple is the operator-facing identity of an unresolved street, without
// the zone.
type Triple struct {
	Direction  string
	StreetName string
	StreetType string
}

// Report tallies outcomes across the worker pool. Safe for concurrent use.
type Report struct {
	mu         sync.Mutex
	total      int
	bySource   map[string]int
	unresolved map[UnresolvedKey]int
}

func New() *Report {
	return &Report{
		bySource:   make(map[string]int),
		unresolved: make(map[UnresolvedKey]int),
	}
}

// RecordResolved counts one resolved record for a source tag.
func (r *Report) RecordResolved(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.bySource[source]++
}

// RecordUnresolved counts one unresolved record under its group key.
func (r *Report) RecordUnresolved(k UnresolvedKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.unresolved[k]++
}

// Total returns the number of records seen.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// SourceCount returns the resolved count for one source tag.
func (r *Report) SourceCount(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySource[source]
}

// UnresolvedCount returns the number of unresolved records.
func (r *Report) UnresolvedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.unresolved {
		n += c
	}
	return n
}

// UnresolvedTriples returns the deduplicated street identities that failed
// to resolve, sorted for stable output.
func (r *Report) UnresolvedTriples() []Triple {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[Triple]bool)
	var triples []Triple
	for k := range r.unresolved {
		t := Triple{Direction: k.Direction, StreetName: k.StreetName, StreetType: k.StreetType}
		if seen[t] {
			continue
		}
		seen[t] = true
		triples = append(triples, t)
	}
	sort.Slice(triples, func(i, j int) bool {
		a, b := triples[i], triples[j]
		if a.StreetName != b.StreetName {
			return a.StreetName < b.StreetName
		}
		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}
		return a.StreetType < b.StreetType
	})
	return triples
}

// Log writes the run summary through the global logger.
func (r *Report) Log() {
	log := zap.L().With(zap.String("component", "report"))

	r.mu.Lock()
	total := r.total
	fields := []zap.Field{zap.Int("total", total)}
	for source, n := range r.bySource {
		fields = append(fields, zap.Int("resolved_"+source, n))
	}
	unresolvedCount := 0
	for _, c := range r.unresolved {
		unresolvedCount += c
	}
	fields = append(fields, zap.Int("unresolved", unresolvedCount))
	r.mu.Unlock()

	log.Info("resolution run complete", fields...)
	for _, t := range r.UnresolvedTriples() {
		log.Warn("unresolved street",
			zap.String("direction", t.Direction),
			zap.String("street_name", t.StreetName),
			zap.String("street_type", t.StreetType),
		)
	}
}
