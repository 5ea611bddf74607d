package ast

import "testing"

func TestParseDeclAndFact(t *testing.T) {
	prog, err := Parse(`.pred edge(a: symbol, b: symbol). edge("x", "y").`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Decls) != 1 || prog.Decls[0].Pred != "edge" {
		t.Fatalf("expected one edge decl, got %+v", prog.Decls)
	}
	if len(prog.Decls[0].Args) != 2 || prog.Decls[0].Args[0].Type != "symbol" {
		t.Fatalf("bad decl args: %+v", prog.Decls[0].Args)
	}
	if len(prog.Facts) != 1 || prog.Facts[0].Pred != "edge" {
		t.Fatalf("expected one edge fact, got %+v", prog.Facts)
	}
	if prog.Facts[0].Args[0].Str != "x" || prog.Facts[0].Args[1].Str != "y" {
		t.Fatalf("bad fact args: %+v", prog.Facts[0].Args)
	}
}

func TestParseRuleWithNegationAndComparison(t *testing.T) {
	src := `unmarked(N) :- node(N), not marked(N), N != 0.`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Rules) != 1 {
		t.Fatalf("expected one rule, got %+v", prog.Rules)
	}
	r := prog.Rules[0]
	if r.Head != "unmarked" || len(r.Body) != 3 {
		t.Fatalf("bad rule: %+v", r)
	}
	if r.Body[0].Kind != PositiveLit || r.Body[0].Pred != "node" {
		t.Errorf("literal 0: %+v", r.Body[0])
	}
	if r.Body[1].Kind != NegativeLit || r.Body[1].Pred != "marked" {
		t.Errorf("literal 1: %+v", r.Body[1])
	}
	if r.Body[2].Kind != ComparisonLit || r.Body[2].Op != OpNeq {
		t.Errorf("literal 2: %+v", r.Body[2])
	}
}

func TestParseMatchLiteral(t *testing.T) {
	prog, err := Parse(`tagged(X) :- node(X), match(X, "root").`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := prog.Rules[0]
	m := r.Body[1]
	if m.Kind != BuiltinLit || m.Builtin != MatchBuiltin {
		t.Fatalf("expected match builtin literal, got %+v", m)
	}
	if m.LHS.Kind != VarTerm || m.LHS.Name != "X" || m.RHS.Kind != StringTerm || m.RHS.Str != "root" {
		t.Errorf("bad match args: %+v", m)
	}
}

func TestParseEqualityLiteral(t *testing.T) {
	prog, err := Parse(`same(X, Y) :- node(X), node(Y), X = Y.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit := prog.Rules[0].Body[2]
	if lit.Kind != EqualityLit {
		t.Fatalf("expected EqualityLit, got %+v", lit)
	}
}

func TestParseWildcardDesugarsToFreshVars(t *testing.T) {
	prog, err := Parse(`has_edge(A) :- edge(A, _).`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit := prog.Rules[0].Body[0]
	if lit.Args[1].Kind != WildcardTerm || lit.Args[1].Name == "" {
		t.Fatalf("expected a named synthetic wildcard term, got %+v", lit.Args[1])
	}
}

func TestParseClearDirective(t *testing.T) {
	prog, err := Parse(`.clear_derived().`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prog.ClearDerived {
		t.Fatalf("expected ClearDerived to be set")
	}
}

func TestParseRejectsVariableInFact(t *testing.T) {
	_, err := Parse(`edge(X, "y").`)
	if err == nil {
		t.Fatalf("expected an error for a variable in fact position")
	}
	se, ok := err.(*SyntaxError)
	if !ok || se.Kind != KindVariableInFact {
		t.Fatalf("expected KindVariableInFact, got %v", err)
	}
}

func TestParseRejectsUppercaseHead(t *testing.T) {
	_, err := Parse(`Edge(X, Y) :- node(X), node(Y).`)
	if err == nil {
		t.Fatalf("expected an error for an uppercase predicate head")
	}
	se, ok := err.(*SyntaxError)
	if !ok || se.Kind != KindNonPredicateHead {
		t.Fatalf("expected KindNonPredicateHead, got %v", err)
	}
}

func TestParseRejectsMissingCompareOp(t *testing.T) {
	_, err := Parse(`bad(X) :- node(X), X "y".`)
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
}

func TestParseRejectsTooManyArguments(t *testing.T) {
	src := "p(A,A,A,A,A,A,A,A,A,A,A,A,A,A,A,A,A) :- node(A)."
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected a too-many-arguments error")
	}
	se, ok := err.(*SyntaxError)
	if !ok || se.Kind != KindTooManyArguments {
		t.Fatalf("expected KindTooManyArguments, got %v", err)
	}
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := Parse(`edge("x, "y").`)
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestParseFirstErrorWinsOverSubsequentOnes(t *testing.T) {
	// Two independent errors: an uppercase head, then a bad top-level token.
	// Only the first should surface.
	_, err := Parse(`Edge(X). ###`)
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Kind != KindNonPredicateHead {
		t.Fatalf("expected the first error (non-predicate-head) to win, got %v", se.Kind)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, err := Parse("   % just a comment\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Decls) != 0 || len(prog.Facts) != 0 || len(prog.Rules) != 0 {
		t.Fatalf("expected an empty program, got %+v", prog)
	}
}
