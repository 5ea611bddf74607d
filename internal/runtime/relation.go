package runtime

// Relation is the per-predicate runtime state described in spec §3/§4.5: the
// three tuple buffers driving semi-naive iteration, plus an optional
// argument-0 hash index.
type Relation struct {
	Arity   int
	Stratum int

	Base  TupleBuffer
	Delta TupleBuffer
	Next  TupleBuffer

	index *HashIndex // nil when Arity == 0, per spec §3
}

// NewRelation allocates a Relation for a predicate of the given arity and
// stratum. The hash index is enabled iff arity > 0 (spec §3).
func NewRelation(arity, stratum int) *Relation {
	r := &Relation{Arity: arity, Stratum: stratum}
	if arity > 0 {
		r.index = NewHashIndex()
	}
	return r
}

// HasIndex reports whether argument-0 indexing is enabled for this relation.
func (r *Relation) HasIndex() bool { return r.index != nil }

// IndexLookup returns base row indices whose argument 0 has the given key.
// Callers must check HasIndex first.
func (r *Relation) IndexLookup(key int64) []int {
	return r.index.Lookup(key)
}

// InsertBaseUnique implements relation_base_insert_unique (spec §4.5): a
// linear scan for an existing equal tuple, else append to Base and index it.
// Returns true iff the tuple was newly inserted.
func (r *Relation) InsertBaseUnique(t Tuple) bool {
	if r.Base.Contains(t) {
		return false
	}
	row := r.Base.Len()
	r.Base.Append(t)
	if r.index != nil && len(t) > 0 {
		r.index.Add(t[0].IndexKey(), row)
	}
	return true
}

// InsertNextUnique implements relation_next_insert_unique (spec §4.5): like
// InsertBaseUnique, but checks/targets Next instead of Base.
func (r *Relation) InsertNextUnique(t Tuple) bool {
	if r.Next.Contains(t) {
		return false
	}
	r.Next.Append(t)
	return true
}

// PrepareDeltaFromBase implements relation_prepare_delta_from_base (spec
// §4.5): seeds Delta with a copy of Base at the start of a stratum.
func (r *Relation) PrepareDeltaFromBase() {
	r.Delta.Clear()
	for _, t := range r.Base.All() {
		r.Delta.Append(t)
	}
}

// PromoteNext implements relation_promote_next (spec §4.5): every tuple in
// Next is appended to Base (indexed), then Delta and Next are swapped, then
// the new Next is cleared. Returns true iff any tuple was promoted.
//
// Next is only ever populated through Derive, which already excludes tuples
// already present in Base, so the append below cannot introduce a
// duplicate; Base.Contains is not re-checked here to avoid a second linear
// scan per tuple.
func (r *Relation) PromoteNext() bool {
	promoted := false
	for _, t := range r.Next.All() {
		row := r.Base.Len()
		r.Base.Append(t)
		if r.index != nil && len(t) > 0 {
			r.index.Add(t[0].IndexKey(), row)
		}
		promoted = true
	}
	r.Delta, r.Next = r.Next, r.Delta
	r.Next.Clear()
	return promoted
}

// Derive records a newly-computed head tuple as a candidate for promotion
// (spec §4.6 "insert via relation_next_insert_unique"). It first checks
// whether t is already known in Base — rederiving an existing fact is not a
// change — and only then applies relation_next_insert_unique, which keeps
// Base free of duplicates (invariant 3, spec §8) without requiring every
// caller to remember the Base check.
func (r *Relation) Derive(t Tuple) bool {
	if r.Base.Contains(t) {
		return false
	}
	return r.InsertNextUnique(t)
}

// ClearBase discards all tuples in Base and its index. Used by
// .clear_derived for IDB predicates (spec §9).
func (r *Relation) ClearBase() {
	r.Base.Clear()
	if r.index != nil {
		r.index.Clear()
	}
}
