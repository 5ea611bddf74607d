package eval

import (
	"context"
	"sort"
	"testing"

	"github.com/ritamzico/rulr/internal/ast"
	"github.com/ritamzico/rulr/internal/ir"
	"github.com/ritamzico/rulr/internal/runtime"
	"github.com/ritamzico/rulr/internal/symtab"
)

type fixture struct {
	prog     *ir.Program
	rels     []*runtime.Relation
	interner *symtab.Table
}

func build(t *testing.T, src string) *fixture {
	t.Helper()
	astProg, err := ast.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	interner := symtab.New()
	res, err := ir.Build(astProg, ir.NewTable(), interner)
	if err != nil {
		t.Fatalf("ir build error: %v", err)
	}
	rels := make([]*runtime.Relation, res.Program.Predicates.Len())
	for i := range rels {
		p := res.Program.Predicates.Get(int32(i))
		rels[i] = runtime.NewRelation(p.Arity, p.Stratum)
	}
	f := &fixture{prog: res.Program, rels: rels, interner: interner}
	for _, fact := range res.Facts {
		id, ok := res.Program.Predicates.Lookup(fact.Pred)
		if !ok {
			t.Fatalf("fact predicate %q not registered", fact.Pred)
		}
		tup := make(runtime.Tuple, len(fact.Args))
		for i, a := range fact.Args {
			if a.IsInt {
				tup[i] = runtime.Int(a.Int)
			} else {
				tup[i] = runtime.Symbol(interner.Intern(a.Str))
			}
		}
		rels[id].InsertBaseUnique(tup)
	}
	return f
}

func (f *fixture) evaluate(t *testing.T) {
	t.Helper()
	if err := Evaluate(context.Background(), f.prog, f.rels, nil); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
}

// tuplesOf renders every base tuple of pred as a slice of string arg lists
// (symbols resolved back to their names), for easy comparison.
func (f *fixture) tuplesOf(t *testing.T, pred string) [][]string {
	t.Helper()
	id, ok := f.prog.Predicates.Lookup(pred)
	if !ok {
		t.Fatalf("predicate %q not found", pred)
	}
	rel := f.rels[id]
	var out [][]string
	for _, tup := range rel.Base.All() {
		row := make([]string, len(tup))
		for i, v := range tup {
			if v.Kind == runtime.SymbolKind {
				name, _ := f.interner.Lookup(v.Sym)
				row[i] = name
			} else {
				row[i] = runtime.Int(v.Int).String()
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		for k := range out[i] {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}

func TestScenarioATransitiveClosure(t *testing.T) {
	f := build(t, `
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
edge("x","y"). edge("y","z"). edge("z","w").
path(A,B) :- edge(A,B).
path(A,C) :- edge(A,B), path(B,C).
`)
	f.evaluate(t)
	got := f.tuplesOf(t, "path")
	want := [][]string{
		{"x", "y"}, {"x", "z"}, {"x", "w"},
		{"y", "z"}, {"y", "w"},
		{"z", "w"},
	}
	sort.Slice(want, func(i, j int) bool {
		for k := range want[i] {
			if want[i][k] != want[j][k] {
				return want[i][k] < want[j][k]
			}
		}
		return false
	})
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Errorf("mismatch at %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScenarioBStratifiedNegation(t *testing.T) {
	f := build(t, `
.pred node(n: symbol).
.pred marked(n: symbol).
.pred unmarked(n: symbol).
node("a"). node("b"). node("c"). marked("a").
unmarked(N) :- node(N), not marked(N).
`)
	f.evaluate(t)
	got := f.tuplesOf(t, "unmarked")
	if len(got) != 2 || got[0][0] != "b" || got[1][0] != "c" {
		t.Fatalf("got %v, want [[b] [c]]", got)
	}
}

func TestScenarioEDBDrivenRule(t *testing.T) {
	f := build(t, `
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
edge("x","y").
path(A,B) :- edge(A,B).
`)
	f.evaluate(t)
	got := f.tuplesOf(t, "path")
	if len(got) != 1 || got[0][0] != "x" || got[0][1] != "y" {
		t.Fatalf("got %v", got)
	}
}

func TestSelfRecursiveRuleReachesFixpoint(t *testing.T) {
	f := build(t, `
.pred edge(a: symbol, b: symbol).
.pred reach(a: symbol, b: symbol).
edge("x","y"). edge("y","z"). edge("z","x").
reach(A,B) :- edge(A,B).
reach(A,C) :- reach(A,B), edge(B,C).
`)
	f.evaluate(t)
	got := f.tuplesOf(t, "reach")
	if len(got) != 9 {
		t.Fatalf("expected the full 3-cycle closure (9 pairs), got %d: %v", len(got), got)
	}
}

func TestComparisonAndMatchLiterals(t *testing.T) {
	f := build(t, `
.pred value(n: int).
.pred tag(n: symbol).
.pred big(n: int).
.pred tagged_root(n: symbol).
value(1). value(20). value(3).
tag("root"). tag("leaf").
big(N) :- value(N), N >= 10.
tagged_root(N) :- tag(N), match(N, "root").
`)
	f.evaluate(t)
	big := f.tuplesOf(t, "big")
	if len(big) != 1 || big[0][0] != "20" {
		t.Fatalf("got %v", big)
	}
	tagged := f.tuplesOf(t, "tagged_root")
	if len(tagged) != 1 || tagged[0][0] != "root" {
		t.Fatalf("got %v", tagged)
	}
}

func TestZeroArityPredicateEvaluates(t *testing.T) {
	f := build(t, `
.pred always_true().
always_true().
derived() :- always_true().
`)
	f.evaluate(t)
	got := f.tuplesOf(t, "derived")
	if len(got) != 1 || len(got[0]) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestContextCancellationStopsEvaluation(t *testing.T) {
	f := build(t, `
.pred edge(a: symbol, b: symbol).
.pred path(a: symbol, b: symbol).
edge("x","y").
path(A,B) :- edge(A,B).
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Evaluate(ctx, f.prog, f.rels, nil)
	if err == nil {
		t.Fatalf("expected an error from a pre-cancelled context")
	}
}
