package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined identifiers, then falls back to
// "<prefix>-N" once they run out.
//
// It satisfies object.IDGenerator, so empty-key substitution in All becomes
// reproducible in golden files.
//
// Thread-safety: safe for concurrent use.
type FixedIDGenerator struct {
	mu     sync.Mutex
	prefix string
	ids    []string
	idx    int
	n      int
}

// NewFixedIDGenerator creates a generator that yields ids in order.
//
//	gen := NewFixedIDGenerator("key", "first")
//	gen.Generate() // "first"
//	gen.Generate() // "key-1"
//	gen.Generate() // "key-2"
//
// An empty prefix defaults to "id".
func NewFixedIDGenerator(prefix string, ids ...string) *FixedIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &FixedIDGenerator{prefix: prefix, ids: ids}
}

// Generate returns the next identifier.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx < len(g.ids) {
		id := g.ids[g.idx]
		g.idx++
		return id
	}
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
