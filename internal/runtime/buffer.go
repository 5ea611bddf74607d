package runtime

// TupleBuffer is a growable, order-preserving sequence of Tuples (spec §3,
// §4.5). Growth is delegated to Go's own slice-growth algorithm rather than
// hand-rolled geometric doubling — the teacher's adjacency-list graph model
// takes the same approach of leaning on builtin containers instead of
// reimplementing them.
type TupleBuffer struct {
	tuples []Tuple
}

// Len returns the number of tuples currently stored.
func (b *TupleBuffer) Len() int { return len(b.tuples) }

// At returns the tuple at index i.
func (b *TupleBuffer) At(i int) Tuple { return b.tuples[i] }

// Append adds t to the end of the buffer.
func (b *TupleBuffer) Append(t Tuple) {
	b.tuples = append(b.tuples, t)
}

// Clear empties the buffer without releasing its backing array, so the next
// stratum's iteration can reuse the capacity.
func (b *TupleBuffer) Clear() {
	b.tuples = b.tuples[:0]
}

// Contains performs a linear scan for a structurally equal tuple.
func (b *TupleBuffer) Contains(t Tuple) bool {
	for _, x := range b.tuples {
		if x.Equal(t) {
			return true
		}
	}
	return false
}

// All returns the buffer's tuples in insertion order. The returned slice
// aliases internal storage and must not be retained across a mutation.
func (b *TupleBuffer) All() []Tuple { return b.tuples }
