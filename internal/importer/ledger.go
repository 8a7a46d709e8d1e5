// SPDX-License-Identifier: MPL-2.0

package importer

// Ledger records the canonical paths already inlined during one top-level
// Process call. Paths are never removed. Directives are handled serially, so
// it needs no locking.
//
// Each directive works on a pending layer from begin. Its paths, and those of
// everything it loads, are visible through the layer at once, which stops a
// file from inlining itself, but reach the parent only on commit. A directive
// that fails is simply not committed.
type Ledger struct {
	parent *Ledger
	seen   map[string]struct{}
	order  []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Has reports whether path has been recorded in l or any layer below it.
func (l *Ledger) Has(path string) bool {
	for cur := l; cur != nil; cur = cur.parent {
		if _, ok := cur.seen[path]; ok {
			return true
		}
	}
	return false
}

// Add records path. Adding a path twice is a no-op.
func (l *Ledger) Add(path string) {
	if l.Has(path) {
		return
	}
	l.seen[path] = struct{}{}
	l.order = append(l.order, path)
}

// Len returns the number of paths recorded in this layer.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Paths returns this layer's paths in the order they were first added.
func (l *Ledger) Paths() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// begin returns a pending layer over l.
func (l *Ledger) begin() *Ledger {
	return &Ledger{parent: l, seen: make(map[string]struct{})}
}

// commit adds the layer's paths to its parent, in order.
func (l *Ledger) commit() {
	for _, path := range l.order {
		l.parent.Add(path)
	}
}
