package symtab

import "testing"

func TestInternIsStableAndOrdered(t *testing.T) {
	tab := New()

	a := tab.Intern("x")
	b := tab.Intern("y")
	aAgain := tab.Intern("x")

	if a != 0 || b != 1 {
		t.Fatalf("expected allocation-order ids 0,1, got %d,%d", a, b)
	}
	if aAgain != a {
		t.Fatalf("re-interning %q should return the same id, got %d want %d", "x", aAgain, a)
	}
	if tab.Len() != 2 {
		t.Fatalf("expected 2 distinct symbols, got %d", tab.Len())
	}
}

func TestLookupRoundTrip(t *testing.T) {
	tab := New()
	id := tab.Intern("hello")

	s, ok := tab.Lookup(id)
	if !ok || s != "hello" {
		t.Fatalf("Lookup(%d) = %q, %v; want %q, true", id, s, ok, "hello")
	}

	if _, ok := tab.Lookup(id + 1); ok {
		t.Fatalf("Lookup of unknown id should fail")
	}
	if _, ok := tab.Lookup(-1); ok {
		t.Fatalf("Lookup of negative id should fail")
	}
}
