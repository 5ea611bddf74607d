package ir

import (
	"fmt"

	"github.com/ritamzico/rulr/internal/ast"
	"github.com/ritamzico/rulr/internal/symtab"
)

// BuildResult is the product of Build: a translated IR Program plus the
// validated AST facts the engine still needs to insert itself (spec §4.3
// item 2: "Facts are not translated to IR — they are inserted into the
// runtime by the engine after IR build").
type BuildResult struct {
	Program      *Program
	Facts        []ast.Fact
	ClearDerived bool
}

// Build translates an AST Program into an IR Program against a persistent
// predicate Table and symbol interner (spec §4.3). preds is mutated in
// place and is expected to be the same Table reused across reloads, so
// predicate IDs and declared types survive a rule reload (spec §4.7).
func Build(prog *ast.Program, preds *Table, interner *symtab.Table) (*BuildResult, error) {
	b := &builder{preds: preds, interner: interner}

	preds.ResetStrata()

	if err := b.processDecls(prog.Decls); err != nil {
		return nil, err
	}
	if err := b.validateFacts(prog.Facts); err != nil {
		return nil, err
	}
	rules, err := b.buildRules(prog.Rules)
	if err != nil {
		return nil, err
	}
	b.markIDB(rules)
	maxStratum, err := b.stratify(rules)
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		Program:      &Program{Predicates: preds, Rules: rules, MaxStratum: maxStratum},
		Facts:        prog.Facts,
		ClearDerived: prog.ClearDerived,
	}, nil
}

type builder struct {
	preds    *Table
	interner *symtab.Table
}

// processDecls registers every `.pred` declaration (spec §4.3 item 1).
func (b *builder) processDecls(decls []ast.Decl) error {
	for _, d := range decls {
		types := make([]ArgType, len(d.Args))
		for i, a := range d.Args {
			types[i] = ParseArgType(a.Type)
		}
		if _, err := b.preds.RegisterDecl(d.Pred, types); err != nil {
			return err
		}
	}
	return nil
}

// validateFacts registers (inferring arity if absent) and type-checks every
// fact (spec §4.3 item 2).
func (b *builder) validateFacts(facts []ast.Fact) error {
	for _, f := range facts {
		id, err := b.preds.RegisterUse(f.Pred, len(f.Args))
		if err != nil {
			return err
		}
		p := b.preds.Get(id)
		for i, a := range f.Args {
			if err := checkFactArgType(f.Pred, i, p.ArgTypes[i], a); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFactArgType(pred string, pos int, declared ArgType, arg ast.FactArg) error {
	switch declared {
	case IntType, RangeType:
		if !arg.IsInt {
			return &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
				"fact %q argument %d declared %s but got a string", pred, pos, declared)}
		}
	case SymbolType:
		if arg.IsInt {
			return &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
				"fact %q argument %d declared symbol but got an int", pred, pos)}
		}
	}
	return nil
}

func checkLitArgType(pred string, pos int, declared ArgType, arg Term) error {
	switch declared {
	case IntType, RangeType:
		if arg.Kind == SymbolTerm {
			return &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
				"predicate %q argument %d declared %s but got a symbol", pred, pos, declared)}
		}
	case SymbolType:
		if arg.Kind == IntTerm {
			return &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
				"predicate %q argument %d declared symbol but got an int", pred, pos)}
		}
	}
	return nil
}

// translateTerm maps an AST term to an IR term, assigning a fresh per-rule
// variable index the first time a variable (or desugared wildcard) name is
// seen (spec §4.3 item 3).
func translateTerm(t ast.Term, vars map[string]int, interner *symtab.Table) Term {
	switch t.Kind {
	case ast.IntTerm:
		return Term{Kind: IntTerm, Int: t.Int}
	case ast.StringTerm:
		return Term{Kind: SymbolTerm, Sym: interner.Intern(t.Str)}
	case ast.VarTerm, ast.WildcardTerm:
		idx, ok := vars[t.Name]
		if !ok {
			idx = len(vars)
			vars[t.Name] = idx
		}
		return Term{Kind: VarTerm, Var: idx}
	default:
		return Term{}
	}
}

func trackVar(t Term, set map[int]bool) {
	if t.Kind == VarTerm {
		set[t.Var] = true
	}
}

// buildRules translates every AST rule, enforcing arity/type checks and the
// range-restriction (safety) rule (spec §4.3 item 3).
func (b *builder) buildRules(astRules []ast.Rule) ([]Rule, error) {
	rules := make([]Rule, 0, len(astRules))
	for _, ar := range astRules {
		vars := map[string]int{}

		headTerms := make([]Term, len(ar.HeadArgs))
		for i, t := range ar.HeadArgs {
			headTerms[i] = translateTerm(t, vars, b.interner)
		}
		headID, err := b.preds.RegisterUse(ar.Head, len(headTerms))
		if err != nil {
			return nil, err
		}

		positiveVars := map[int]bool{}
		allVars := map[int]bool{}
		for _, t := range headTerms {
			trackVar(t, allVars)
		}

		body := make([]Literal, len(ar.Body))
		for li, lit := range ar.Body {
			switch lit.Kind {
			case ast.PositiveLit, ast.NegativeLit:
				args := make([]Term, len(lit.Args))
				for i, t := range lit.Args {
					args[i] = translateTerm(t, vars, b.interner)
				}
				pid, err := b.preds.RegisterUse(lit.Pred, len(args))
				if err != nil {
					return nil, err
				}
				p := b.preds.Get(pid)
				for i, at := range args {
					if at.Kind == VarTerm {
						continue
					}
					if err := checkLitArgType(lit.Pred, i, p.ArgTypes[i], at); err != nil {
						return nil, err
					}
				}
				if lit.Kind == ast.PositiveLit {
					for _, t := range args {
						trackVar(t, positiveVars)
						trackVar(t, allVars)
					}
				} else {
					for _, t := range args {
						trackVar(t, allVars)
					}
				}
				body[li] = Literal{Kind: lit.Kind, Pred: pid, Args: args}

			case ast.EqualityLit:
				lhs := translateTerm(lit.LHS, vars, b.interner)
				rhs := translateTerm(lit.RHS, vars, b.interner)
				trackVar(lhs, allVars)
				trackVar(rhs, allVars)
				body[li] = Literal{Kind: ast.EqualityLit, LHS: lhs, RHS: rhs}

			case ast.ComparisonLit:
				lhs := translateTerm(lit.LHS, vars, b.interner)
				rhs := translateTerm(lit.RHS, vars, b.interner)
				trackVar(lhs, allVars)
				trackVar(rhs, allVars)
				body[li] = Literal{Kind: ast.ComparisonLit, Op: lit.Op, LHS: lhs, RHS: rhs}

			case ast.BuiltinLit:
				lhs := translateTerm(lit.LHS, vars, b.interner)
				rhs := translateTerm(lit.RHS, vars, b.interner)
				trackVar(lhs, allVars)
				trackVar(rhs, allVars)
				body[li] = Literal{Kind: ast.BuiltinLit, Builtin: lit.Builtin, LHS: lhs, RHS: rhs}
			}
		}

		for v := range allVars {
			if !positiveVars[v] {
				return nil, &Error{Kind: KindUnsafeRule, Message: fmt.Sprintf(
					"rule for %q: a variable has no positive occurrence in the body", ar.Head)}
			}
		}

		rules = append(rules, Rule{Head: headID, HeadArgs: headTerms, Body: body, NumVars: len(vars)})
	}
	return rules, nil
}

// markIDB sets IsIDB for every predicate that heads at least one rule
// (spec §4.3 item 4).
func (b *builder) markIDB(rules []Rule) {
	for _, r := range rules {
		if p := b.preds.Get(r.Head); p != nil {
			p.IsIDB = true
		}
	}
}

// stratify assigns the least stratum satisfying every rule's constraints
// (spec §4.3 item 5): a head's stratum must be at least the max of its
// positive body predicates' strata, and strictly greater than every
// negatively-referenced body predicate's stratum. A fixpoint that doesn't
// converge within len(predicates)+1 passes means a negation cycle.
func (b *builder) stratify(rules []Rule) (int, error) {
	n := b.preds.Len()
	for iter := 0; ; iter++ {
		changed := false
		for _, r := range rules {
			head := b.preds.Get(r.Head)
			required := 0
			for _, lit := range r.Body {
				switch lit.Kind {
				case ast.PositiveLit:
					if p := b.preds.Get(lit.Pred); p != nil && p.Stratum > required {
						required = p.Stratum
					}
				case ast.NegativeLit:
					if p := b.preds.Get(lit.Pred); p != nil && p.Stratum+1 > required {
						required = p.Stratum + 1
					}
				}
			}
			if head.Stratum < required {
				head.Stratum = required
				changed = true
			}
		}
		if !changed {
			break
		}
		if iter >= n {
			return 0, &Error{Kind: KindNegationCycle, Message: "not stratifiable"}
		}
	}

	max := 0
	for i := 0; i < n; i++ {
		if p := b.preds.Get(int32(i)); p.Stratum > max {
			max = p.Stratum
		}
	}
	return max, nil
}
