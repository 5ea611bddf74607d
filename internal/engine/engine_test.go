package engine

import (
	"context"
	"testing"

	"github.com/ritamzico/rulr/internal/runtime"
)

func TestRegisterPredicateIdempotentOnName(t *testing.T) {
	e := New()
	id1, err := e.RegisterPredicate("edge", 2, []string{"symbol", "symbol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id2, err := e.RegisterPredicate("edge", 2, []string{"symbol", "symbol"})
	if err != nil {
		t.Fatalf("re-registering the same shape should succeed, got %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected the same predicate id, got %d and %d", id1, id2)
	}

	if _, err := e.RegisterPredicate("edge", 3, nil); err == nil {
		t.Fatalf("expected an arity mismatch error")
	}
}

func TestGetPredicateIDNotFound(t *testing.T) {
	e := New()
	if _, ok := e.GetPredicateID("nope"); ok {
		t.Fatalf("expected not-found for an unregistered predicate")
	}
}

func TestInsertFactArityAndTypeChecks(t *testing.T) {
	e := New()
	id, _ := e.RegisterPredicate("value", 1, []string{"int"})

	if _, err := e.InsertFact(id, []runtime.Value{runtime.Int(1), runtime.Int(2)}); err == nil {
		t.Fatalf("expected arity mismatch error")
	}
	if _, err := e.InsertFact(id, []runtime.Value{runtime.Symbol(0)}); err == nil {
		t.Fatalf("expected type mismatch error")
	}

	inserted, err := e.InsertFact(id, []runtime.Value{runtime.Int(42)})
	if err != nil || !inserted {
		t.Fatalf("expected a fresh insert, got inserted=%v err=%v", inserted, err)
	}
	inserted, err = e.InsertFact(id, []runtime.Value{runtime.Int(42)})
	if err != nil || inserted {
		t.Fatalf("expected a duplicate no-op, got inserted=%v err=%v", inserted, err)
	}

	if _, err := e.InsertFact(999, nil); err == nil {
		t.Fatalf("expected invalid-id error")
	}
}

func TestLoadRulesEvaluateAndViewRelation(t *testing.T) {
	e := New()
	if err := e.LoadRulesFromString(`
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
edge("x","y"). edge("y","z").
path(A,B) :- edge(A,B).
path(A,C) :- edge(A,B), path(B,C).
`); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if err := e.Evaluate(context.Background()); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	id, ok := e.GetPredicateID("path")
	if !ok {
		t.Fatalf("expected path to be registered")
	}
	view, ok := e.GetRelationView(id)
	if !ok || len(view.Tuples) != 3 {
		t.Fatalf("expected 3 path tuples, got %v (ok=%v)", view.Tuples, ok)
	}
}

func TestLoadRulesFromStringRejectsUnsafeRuleAndKeepsPriorState(t *testing.T) {
	e := New()
	if err := e.LoadRulesFromString(`
.pred edge(a: symbol, b: symbol).
edge("x","y").
`); err != nil {
		t.Fatalf("initial load error: %v", err)
	}
	idBefore, _ := e.GetPredicateID("edge")

	err := e.LoadRulesFromString(`
.pred p(x: symbol).
p(X) :- not p(X).
`)
	if err == nil {
		t.Fatalf("expected an unsafe-rule error")
	}

	if _, ok := e.GetPredicateID("p"); ok {
		t.Fatalf("a failed load must not leave the failed program's predicates registered")
	}
	idAfter, ok := e.GetPredicateID("edge")
	if !ok || idAfter != idBefore {
		t.Fatalf("expected edge's predicate id to survive the failed reload unchanged")
	}
}

func TestClearDerivedRetainsEDBClearsIDB(t *testing.T) {
	e := New()
	if err := e.LoadRulesFromString(`
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
edge("x","y").
path(A,B) :- edge(A,B).
`); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if err := e.Evaluate(context.Background()); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if err := e.LoadRulesFromString(`
.clear_derived().
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
path(A,B) :- edge(A,B).
`); err != nil {
		t.Fatalf("reload error: %v", err)
	}

	edgeID, _ := e.GetPredicateID("edge")
	pathID, _ := e.GetPredicateID("path")
	edgeView, _ := e.GetRelationView(edgeID)
	pathView, _ := e.GetRelationView(pathID)
	if len(edgeView.Tuples) != 1 {
		t.Fatalf("expected edge (EDB) to retain its fact, got %v", edgeView.Tuples)
	}
	if len(pathView.Tuples) != 0 {
		t.Fatalf("expected path (IDB) cleared by .clear_derived, got %v", pathView.Tuples)
	}
}
