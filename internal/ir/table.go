package ir

import "fmt"

// Table is the Predicate Table (spec §3): an ordered list of Predicate
// Definitions whose identity is its index, with name lookups a linear scan
// (spec: "table size bounded by MAX_PREDICATES", not a map, since the
// reference keeps it a flat array the engine indexes Predicate Runtimes
// by). It outlives a single Build call so predicate IDs and arities stay
// stable across rule reloads (spec §4.7: "preserves existing base facts
// that remain compatible").
type Table struct {
	defs []Predicate
}

// NewTable returns an empty predicate table.
func NewTable() *Table {
	return &Table{}
}

// Lookup finds a predicate by name.
func (t *Table) Lookup(name string) (int32, bool) {
	for i := range t.defs {
		if t.defs[i].Name == name {
			return int32(i), true
		}
	}
	return 0, false
}

// Get returns the predicate at id, or nil if out of range.
func (t *Table) Get(id int32) *Predicate {
	if id < 0 || int(id) >= len(t.defs) {
		return nil
	}
	return &t.defs[id]
}

// Len reports the number of registered predicates.
func (t *Table) Len() int {
	return len(t.defs)
}

// RegisterUse registers (or validates) a predicate seen in a fact or rule
// body/head with the given arity, inferring the entry lazily if it doesn't
// exist yet (spec §4.3 item 1/3, spec §3 invariant: "subsequent uses must
// match in arity or IR building fails").
func (t *Table) RegisterUse(name string, arity int) (int32, error) {
	if id, ok := t.Lookup(name); ok {
		p := &t.defs[id]
		if p.Arity != arity {
			return 0, &Error{Kind: KindArityMismatch, Message: fmt.Sprintf(
				"predicate %q used with arity %d, previously %d", name, arity, p.Arity)}
		}
		return id, nil
	}
	id := int32(len(t.defs))
	t.defs = append(t.defs, Predicate{
		Name:     name,
		Arity:    arity,
		Declared: false,
		ArgTypes: make([]ArgType, arity),
	})
	return id, nil
}

// RegisterDecl registers (or re-validates) a predicate introduced by an
// explicit `.pred` declaration (spec §4.3 item 1: "Arity conflicts between
// a later re-declaration or inferred usage fail").
func (t *Table) RegisterDecl(name string, argTypes []ArgType) (int32, error) {
	arity := len(argTypes)
	if id, ok := t.Lookup(name); ok {
		p := &t.defs[id]
		if p.Arity != arity {
			return 0, &Error{Kind: KindArityMismatch, Message: fmt.Sprintf(
				"predicate %q re-declared with arity %d, previously %d", name, arity, p.Arity)}
		}
		if p.Declared {
			for i, at := range argTypes {
				if p.ArgTypes[i] != UnknownType && at != UnknownType && p.ArgTypes[i] != at {
					return 0, &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
						"predicate %q argument %d re-declared as %s, previously %s", name, i, at, p.ArgTypes[i])}
				}
			}
		}
		p.Declared = true
		p.ArgTypes = argTypes
		return id, nil
	}
	id := int32(len(t.defs))
	t.defs = append(t.defs, Predicate{
		Name:     name,
		Arity:    arity,
		Declared: true,
		ArgTypes: argTypes,
	})
	return id, nil
}

// Clone returns a deep copy, used by the engine facade to attempt a rule
// reload against a scratch table and only commit it back on success (spec
// §7: "a failed load_rules_from_string leaves the engine's rule set at its
// pre-call value").
func (t *Table) Clone() *Table {
	defs := make([]Predicate, len(t.defs))
	for i, p := range t.defs {
		types := make([]ArgType, len(p.ArgTypes))
		copy(types, p.ArgTypes)
		p.ArgTypes = types
		defs[i] = p
	}
	return &Table{defs: defs}
}

// ResetStrata sets every predicate's Stratum back to 0 ahead of a fresh
// stratification pass (spec §4.3 item 5 recomputes strata wholesale on
// every rule reload).
func (t *Table) ResetStrata() {
	for i := range t.defs {
		t.defs[i].Stratum = 0
		t.defs[i].IsIDB = false
	}
}
