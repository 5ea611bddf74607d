// Package eval implements the semi-naive, stratified-negation fixpoint
// evaluator (spec §4.6).
package eval

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/ritamzico/rulr/internal/ast"
	"github.com/ritamzico/rulr/internal/ir"
	"github.com/ritamzico/rulr/internal/runtime"
)

// Evaluate runs the fixpoint loop of spec §4.6 over prog's rules, reading
// and writing rels (indexed by predicate ID, kept in sync with
// prog.Predicates by the caller). Cancellation is checked once per outer
// "repeat" iteration within a stratum (SPEC_FULL.md §4.6), matching the
// teacher's per-query ctx.Done() check granularity; a successful,
// uncancelled call behaves exactly as spec.md §4.6 describes.
func Evaluate(ctx context.Context, prog *ir.Program, rels []*runtime.Relation, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for s := 0; s <= prog.MaxStratum; s++ {
		for pid := 0; pid < prog.Predicates.Len(); pid++ {
			if prog.Predicates.Get(int32(pid)).Stratum == s {
				rels[pid].PrepareDeltaFromBase()
			}
		}

		iteration := 0
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			for pid := 0; pid < prog.Predicates.Len(); pid++ {
				if prog.Predicates.Get(int32(pid)).Stratum == s {
					rels[pid].Next.Clear()
				}
			}

			changed := false
			for ri := range prog.Rules {
				r := &prog.Rules[ri]
				if prog.Predicates.Get(r.Head).Stratum != s {
					continue
				}
				if evaluateRule(prog, rels, r) {
					changed = true
				}
			}

			promoted := false
			for pid := 0; pid < prog.Predicates.Len(); pid++ {
				if prog.Predicates.Get(int32(pid)).Stratum == s {
					if rels[pid].PromoteNext() {
						promoted = true
					}
				}
			}
			if promoted {
				changed = true
			}

			iteration++
			logger.Trace("stratum iteration", "stratum", s, "iteration", iteration, "changed", changed)
			if !changed {
				break
			}
		}
	}
	return nil
}

// evaluateRule drives one rule through the driver literal over its
// appropriate buffer (Base for an EDB or lower-stratum driver, Delta
// otherwise — spec §4.6), matches the remaining body literals, and inserts
// every resulting head tuple. Returns true iff any tuple changed.
func evaluateRule(prog *ir.Program, rels []*runtime.Relation, r *ir.Rule) bool {
	headRel := rels[r.Head]
	changed := false
	onMatch := func(e *env) {
		if deriveHead(r, headRel, e) {
			changed = true
		}
	}

	driverIdx := -1
	for i, lit := range r.Body {
		if lit.Kind == ast.PositiveLit {
			driverIdx = i
			break
		}
	}

	if driverIdx == -1 {
		// No positive literal: safety guarantees the rule has no variables at
		// all, so a single pass over an empty environment suffices (spec
		// §4.6: "If the rule has no positive literal, evaluate over an empty
		// environment once").
		e := newEnv(r.NumVars)
		matchBody(rels, r.Body, 0, &e, onMatch)
		return changed
	}

	driver := r.Body[driverIdx]
	driverRel := rels[driver.Pred]
	headPred := prog.Predicates.Get(r.Head)
	driverPred := prog.Predicates.Get(driver.Pred)

	var driverTuples []runtime.Tuple
	if !driverPred.IsIDB || driverPred.Stratum < headPred.Stratum {
		driverTuples = driverRel.Base.All()
	} else {
		driverTuples = driverRel.Delta.All()
	}

	rest := make([]ir.Literal, 0, len(r.Body)-1)
	for i, lit := range r.Body {
		if i != driverIdx {
			rest = append(rest, lit)
		}
	}

	for _, tup := range driverTuples {
		e := newEnv(r.NumVars)
		if unifyArgs(driver.Args, tup, &e) {
			matchBody(rels, rest, 0, &e, onMatch)
		}
	}
	return changed
}

func deriveHead(r *ir.Rule, headRel *runtime.Relation, e *env) bool {
	tup := make(runtime.Tuple, len(r.HeadArgs))
	for i, t := range r.HeadArgs {
		v, ok := evalTerm(t, e)
		if !ok {
			return false
		}
		tup[i] = v
	}
	return headRel.Derive(tup)
}
