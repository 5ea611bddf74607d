package runtime

// HashIndex maps the canonical key of a tuple's argument 0 to the list of
// row indices in a TupleBuffer that carry that key (spec §4.5). Go's map
// already chains on collision internally, so there is no hand-linked bucket
// list the way a from-scratch hash table would need one.
type HashIndex struct {
	rows map[int64][]int
}

// NewHashIndex returns an empty index.
func NewHashIndex() *HashIndex {
	return &HashIndex{rows: make(map[int64][]int)}
}

// Add records that row is a candidate for key.
func (h *HashIndex) Add(key int64, row int) {
	h.rows[key] = append(h.rows[key], row)
}

// Lookup returns the row indices recorded for key, or nil if none.
func (h *HashIndex) Lookup(key int64) []int {
	return h.rows[key]
}

// Clear discards all recorded rows.
func (h *HashIndex) Clear() {
	h.rows = make(map[int64][]int)
}
