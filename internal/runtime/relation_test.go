package runtime

import "testing"

func TestInsertBaseUniqueDedupsAndIndexes(t *testing.T) {
	r := NewRelation(2, 0)

	tup := Tuple{Symbol(1), Symbol(2)}
	if !r.InsertBaseUnique(tup) {
		t.Fatalf("first insert should report newly-inserted")
	}
	if r.InsertBaseUnique(tup.Clone()) {
		t.Fatalf("duplicate insert should report no-op")
	}
	if r.Base.Len() != 1 {
		t.Fatalf("expected 1 base tuple, got %d", r.Base.Len())
	}

	rows := r.IndexLookup(Symbol(1).IndexKey())
	if len(rows) != 1 || rows[0] != 0 {
		t.Fatalf("expected index to point at row 0, got %v", rows)
	}
}

func TestZeroArityHasNoIndex(t *testing.T) {
	r := NewRelation(0, 0)
	if r.HasIndex() {
		t.Fatalf("zero-arity relation must not have an index (spec §3)")
	}
}

func TestDerivePreventsRederivingKnownFacts(t *testing.T) {
	r := NewRelation(1, 0)
	r.InsertBaseUnique(Tuple{Int(1)})

	if r.Derive(Tuple{Int(1)}) {
		t.Fatalf("deriving an already-known base tuple should not be a change")
	}
	if !r.Derive(Tuple{Int(2)}) {
		t.Fatalf("deriving a genuinely new tuple should succeed")
	}
	if r.Next.Len() != 1 {
		t.Fatalf("expected only the new tuple queued in Next, got %d", r.Next.Len())
	}
}

func TestPromoteNextSwapsAndClears(t *testing.T) {
	r := NewRelation(1, 0)
	r.PrepareDeltaFromBase() // empty base, so delta starts empty

	r.Derive(Tuple{Int(7)})
	changed := r.PromoteNext()
	if !changed {
		t.Fatalf("expected a promotion to report change")
	}
	if r.Base.Len() != 1 || !r.Base.At(0).Equal(Tuple{Int(7)}) {
		t.Fatalf("expected {7} promoted into base, got %v", r.Base.All())
	}
	if r.Delta.Len() != 1 || !r.Delta.At(0).Equal(Tuple{Int(7)}) {
		t.Fatalf("expected delta to now hold the promoted tuple, got %v", r.Delta.All())
	}
	if r.Next.Len() != 0 {
		t.Fatalf("expected next cleared after promotion, got %d", r.Next.Len())
	}

	if r.PromoteNext() {
		t.Fatalf("promoting an empty next should report no change")
	}
}

func TestClearBaseAlsoClearsIndex(t *testing.T) {
	r := NewRelation(1, 0)
	r.InsertBaseUnique(Tuple{Symbol(5)})
	r.ClearBase()

	if r.Base.Len() != 0 {
		t.Fatalf("expected base cleared")
	}
	if rows := r.IndexLookup(Symbol(5).IndexKey()); len(rows) != 0 {
		t.Fatalf("expected index cleared, found rows %v", rows)
	}
}
