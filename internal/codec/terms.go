package codec

import (
	"fmt"

	"github.com/ritamzico/rulr/internal/ast"
)

// writeTerm encodes one ast.Term (spec §4.4 "Term encoding": u8 kind ∈
// {var=0, string=1, int=2, wildcard=3}, then a kind-specific payload).
// ast.TermKind's own iota order already matches the wire kind numbering.
func writeTerm(w *writer, t ast.Term) {
	w.u8(uint8(t.Kind))
	switch t.Kind {
	case ast.VarTerm:
		w.str(t.Name)
	case ast.StringTerm:
		w.str(t.Str)
	case ast.IntTerm:
		w.i64(t.Int)
	case ast.WildcardTerm:
		// no payload
	}
}

func readTerm(r *reader) ast.Term {
	kind := ast.TermKind(r.u8())
	switch kind {
	case ast.VarTerm:
		return ast.Term{Kind: ast.VarTerm, Name: r.str()}
	case ast.StringTerm:
		return ast.Term{Kind: ast.StringTerm, Str: r.str()}
	case ast.IntTerm:
		return ast.Term{Kind: ast.IntTerm, Int: r.i64()}
	case ast.WildcardTerm:
		r.wildcnt++
		return ast.Term{Kind: ast.WildcardTerm, Name: fmt.Sprintf("_$%d", r.wildcnt)}
	default:
		r.fail(KindOutOfRangeLength, "unknown term kind %d", kind)
		return ast.Term{}
	}
}

// writeLiteral encodes one ast.Literal (spec §4.4 "Literal encoding").
// ast.LitKind's iota order already matches the wire kind numbering
// (positive, negative, equality, comparison, builtin).
func writeLiteral(w *writer, lit ast.Literal) {
	w.u8(uint8(lit.Kind))
	switch lit.Kind {
	case ast.PositiveLit, ast.NegativeLit:
		w.str(lit.Pred)
		w.arity(len(lit.Args), "literal "+lit.Pred)
		for _, t := range lit.Args {
			writeTerm(w, t)
		}
	case ast.EqualityLit:
		writeTerm(w, lit.LHS)
		writeTerm(w, lit.RHS)
	case ast.ComparisonLit:
		w.u8(uint8(lit.Op))
		writeTerm(w, lit.LHS)
		writeTerm(w, lit.RHS)
	case ast.BuiltinLit:
		w.u8(uint8(lit.Builtin))
		writeTerm(w, lit.LHS)
		writeTerm(w, lit.RHS)
	}
}

func readLiteral(r *reader) ast.Literal {
	kind := ast.LitKind(r.u8())
	switch kind {
	case ast.PositiveLit, ast.NegativeLit:
		pred := r.str()
		arity := int(r.u8())
		args := make([]ast.Term, arity)
		for i := range args {
			args[i] = readTerm(r)
		}
		return ast.Literal{Kind: kind, Pred: pred, Args: args}
	case ast.EqualityLit:
		lhs := readTerm(r)
		rhs := readTerm(r)
		return ast.Literal{Kind: ast.EqualityLit, LHS: lhs, RHS: rhs}
	case ast.ComparisonLit:
		op := ast.CompareOp(r.u8())
		lhs := readTerm(r)
		rhs := readTerm(r)
		return ast.Literal{Kind: ast.ComparisonLit, Op: op, LHS: lhs, RHS: rhs}
	case ast.BuiltinLit:
		b := ast.BuiltinKind(r.u8())
		lhs := readTerm(r)
		rhs := readTerm(r)
		return ast.Literal{Kind: ast.BuiltinLit, Builtin: b, LHS: lhs, RHS: rhs}
	default:
		r.fail(KindOutOfRangeLength, "unknown literal kind %d", kind)
		return ast.Literal{}
	}
}
