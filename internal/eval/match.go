package eval

import (
	"github.com/ritamzico/rulr/internal/ast"
	"github.com/ritamzico/rulr/internal/ir"
	"github.com/ritamzico/rulr/internal/runtime"
)

// evalTerm evaluates an IR term against env, returning (value, true) if the
// term is ground or already bound, else (zero, false).
func evalTerm(t ir.Term, e *env) (runtime.Value, bool) {
	switch t.Kind {
	case ir.IntTerm:
		return runtime.Int(t.Int), true
	case ir.SymbolTerm:
		return runtime.Symbol(t.Sym), true
	case ir.VarTerm:
		return e.get(t.Var)
	default:
		return runtime.Value{}, false
	}
}

// unifyTerm matches an IR term against a concrete runtime value: a ground
// term must equal it, a bound variable must equal it, and a free variable
// is bound to it (spec §4.6: "unify it with the driver literal (binding
// fresh variables or failing on mismatches)").
func unifyTerm(t ir.Term, v runtime.Value, e *env) bool {
	switch t.Kind {
	case ir.IntTerm:
		return v.Kind == runtime.IntKind && v.Int == t.Int
	case ir.SymbolTerm:
		return v.Kind == runtime.SymbolKind && v.Sym == t.Sym
	case ir.VarTerm:
		if bound, ok := e.get(t.Var); ok {
			return bound.Equal(v)
		}
		e.bind(t.Var, v)
		return true
	default:
		return false
	}
}

func unifyArgs(args []ir.Term, tup runtime.Tuple, e *env) bool {
	for i, t := range args {
		if !unifyTerm(t, tup[i], e) {
			return false
		}
	}
	return true
}

// selectCandidates implements the non-driver positive-literal lookup rule
// (spec §4.6): use the argument-0 hash index when it's enabled and bound,
// else fall back to a linear scan of Base. Nested positive literals always
// read Base, never Delta — only the driver literal consumes Delta.
func selectCandidates(rel *runtime.Relation, args []ir.Term, e *env) []runtime.Tuple {
	if len(args) > 0 && rel.HasIndex() {
		if v, ok := evalTerm(args[0], e); ok {
			rows := rel.IndexLookup(v.IndexKey())
			out := make([]runtime.Tuple, len(rows))
			for i, row := range rows {
				out[i] = rel.Base.At(row)
			}
			return out
		}
	}
	return rel.Base.All()
}

// existsMatch implements negation-as-failure over Base (spec §4.6:
// "evaluate existential matching against base only").
func existsMatch(rel *runtime.Relation, args []ir.Term, e *env) bool {
	for _, tup := range rel.Base.All() {
		ok := true
		for i, t := range args {
			v, bound := evalTerm(t, e)
			if bound && !tup[i].Equal(v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// evalEquality implements the equality literal (spec §4.6): ground-ground
// requires value equality, one free variable gets bound, anything else
// fails (safety guarantees groundness in practice).
func evalEquality(lhs, rhs ir.Term, e *env) bool {
	lv, lok := evalTerm(lhs, e)
	rv, rok := evalTerm(rhs, e)
	switch {
	case lok && rok:
		return lv.Equal(rv)
	case lok && rhs.Kind == ir.VarTerm:
		e.bind(rhs.Var, lv)
		return true
	case rok && lhs.Kind == ir.VarTerm:
		e.bind(lhs.Var, rv)
		return true
	default:
		return false
	}
}

// evalComparison implements the comparison literal (spec §4.6): both sides
// must evaluate to ground values of the same kind.
func evalComparison(op ast.CompareOp, lhs, rhs ir.Term, e *env) bool {
	lv, lok := evalTerm(lhs, e)
	rv, rok := evalTerm(rhs, e)
	if !lok || !rok || lv.Kind != rv.Kind {
		return false
	}
	a, b := lv.Int, rv.Int
	if lv.Kind == runtime.SymbolKind {
		a, b = int64(lv.Sym), int64(rv.Sym)
	}
	switch op {
	case ast.OpEq:
		return a == b
	case ast.OpNeq:
		return a != b
	case ast.OpLt:
		return a < b
	case ast.OpLe:
		return a <= b
	case ast.OpGt:
		return a > b
	case ast.OpGe:
		return a >= b
	default:
		return false
	}
}

// evalBuiltin implements the `match` builtin (spec §9: "exact equality of
// the two operand strings for now"); unground operands fail closed rather
// than matching anything.
func evalBuiltin(kind ast.BuiltinKind, lhs, rhs ir.Term, e *env) bool {
	switch kind {
	case ast.MatchBuiltin:
		lv, lok := evalTerm(lhs, e)
		rv, rok := evalTerm(rhs, e)
		return lok && rok && lv.Equal(rv)
	default:
		return false
	}
}

// matchBody recursively matches lits[idx:] left to right, invoking onMatch
// once per successful full match (spec §4.6: "recursively match the
// remaining body literals").
func matchBody(rels []*runtime.Relation, lits []ir.Literal, idx int, e *env, onMatch func(*env)) {
	if idx >= len(lits) {
		onMatch(e)
		return
	}
	lit := lits[idx]
	switch lit.Kind {
	case ast.PositiveLit:
		rel := rels[lit.Pred]
		for _, tup := range selectCandidates(rel, lit.Args, e) {
			next := e.clone()
			if unifyArgs(lit.Args, tup, &next) {
				matchBody(rels, lits, idx+1, &next, onMatch)
			}
		}
	case ast.NegativeLit:
		rel := rels[lit.Pred]
		if !existsMatch(rel, lit.Args, e) {
			matchBody(rels, lits, idx+1, e, onMatch)
		}
	case ast.EqualityLit:
		if evalEquality(lit.LHS, lit.RHS, e) {
			matchBody(rels, lits, idx+1, e, onMatch)
		}
	case ast.ComparisonLit:
		if evalComparison(lit.Op, lit.LHS, lit.RHS, e) {
			matchBody(rels, lits, idx+1, e, onMatch)
		}
	case ast.BuiltinLit:
		if evalBuiltin(lit.Builtin, lit.LHS, lit.RHS, e) {
			matchBody(rels, lits, idx+1, e, onMatch)
		}
	}
}
