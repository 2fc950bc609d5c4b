package catalog

import "context"

// MemoryGeocache serves reference points from a map keyed by canonical
// identity.
type MemoryGeocache struct {
	entries map[string]ReferencePoint
}

func NewMemoryGeocache() *MemoryGeocache {
	return &MemoryGeocache{entries: make(map[string]ReferencePoint)}
}

func (g *MemoryGeocache) Put(dir, name, typ string, ref ReferencePoint) {
	g.entries[dir+"|"+name+"|"+typ] = ref
}

func (g *MemoryGeocache) Lookup(_ context.Context, dir, name, typ string) (*ReferencePoint, error) {
	ref, ok := g.entries[dir+"|"+name+"|"+typ]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}
