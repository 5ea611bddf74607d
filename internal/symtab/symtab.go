// Package symtab implements the symbol interner attached to an Engine.
//
// Symbol IDs are allocation-order dependent: the same source text interned
// in the same order always yields the same IDs, which is what makes
// evaluation reproducible across runs (spec §5).
package symtab

import "sync"

// Table is a growable, bidirectional string<->id interner. The zero value is
// not usable; call New.
type Table struct {
	mu   sync.Mutex
	ids  map[string]int32
	strs []string
}

// New returns an empty interner.
func New() *Table {
	return &Table{ids: make(map[string]int32)}
}

// Intern returns the id for s, assigning a fresh one on first use.
func (t *Table) Intern(s string) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := int32(len(t.strs))
	t.strs = append(t.strs, s)
	t.ids[s] = id
	return id
}

// Lookup returns the string for id, or "" and false if id was never interned.
func (t *Table) Lookup(id int32) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || int(id) >= len(t.strs) {
		return "", false
	}
	return t.strs[id], true
}

// Len reports how many distinct symbols have been interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.strs)
}
