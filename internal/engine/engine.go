// Package engine implements the Engine Facade (spec §4.7): the single
// stateful type an embedder drives — predicate registration, fact
// insertion, rule (re)loading, fixpoint evaluation, and read-only relation
// views — wrapping the lexer/ast/ir/eval/codec layers behind one surface.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/ritamzico/rulr/internal/ast"
	"github.com/ritamzico/rulr/internal/codec"
	"github.com/ritamzico/rulr/internal/eval"
	"github.com/ritamzico/rulr/internal/ir"
	"github.com/ritamzico/rulr/internal/runtime"
	"github.com/ritamzico/rulr/internal/symtab"
)

// Engine is the single-threaded, non-reentrant facade described in spec §5:
// callers must not invoke multiple methods concurrently on the same Engine.
type Engine struct {
	logger   hclog.Logger
	interner *symtab.Table
	preds    *ir.Table
	program  *ir.Program
	rels     []*runtime.Relation
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a structured logger (spec §4.7 "(new) Structured
// logging"); a nil logger is ignored, leaving the default null logger.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine with an empty IR and a fresh default symbol table
// (spec §4.7: `create()`).
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   hclog.NewNullLogger(),
		interner: symtab.New(),
		preds:    ir.NewTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSymbolTable overrides the engine's interner (spec §4.7: "optional:
// override interning"). Intended to be called once, immediately after
// New, before any predicate is registered or fact inserted — existing
// symbol IDs interned under the previous table are not migrated.
func (e *Engine) SetSymbolTable(t *symtab.Table) {
	if t != nil {
		e.interner = t
	}
}

// RegisterPredicate registers (or idempotently re-validates) a predicate by
// name and arity, with optional per-argument type names ("symbol", "int",
// or "range"); pass nil types to leave every argument's type unknown (spec
// §4.7: "idempotent on name; fails on arity or type mismatch").
func (e *Engine) RegisterPredicate(name string, arity int, types []string) (int32, error) {
	if types != nil && len(types) != arity {
		return 0, &Error{Kind: KindArityMismatch, Message: fmt.Sprintf(
			"predicate %q: %d type names given for arity %d", name, len(types), arity)}
	}
	argTypes := make([]ir.ArgType, arity)
	for i, ty := range types {
		argTypes[i] = ir.ParseArgType(ty)
	}
	id, err := e.preds.RegisterDecl(name, argTypes)
	if err != nil {
		return 0, wrapIRError(err)
	}
	e.syncRelations()
	return id, nil
}

// GetPredicateID returns the ID registered for name, or false if none (spec
// §4.7: "ID or 'not found'").
func (e *Engine) GetPredicateID(name string) (int32, bool) {
	return e.preds.Lookup(name)
}

// ResolveSymbol returns the source text a symbol id was interned from, for
// rendering values back to the CLI driver's name table (spec §6: "using
// the default interner's name table to render symbols").
func (e *Engine) ResolveSymbol(id int32) (string, bool) {
	return e.interner.Lookup(id)
}

// InsertFact inserts values into predID's base relation after checking
// arity and declared argument types (spec §4.7). Returns whether the tuple
// was newly inserted.
func (e *Engine) InsertFact(predID int32, values []runtime.Value) (bool, error) {
	p := e.preds.Get(predID)
	if p == nil {
		return false, &Error{Kind: KindInvalidID, Message: fmt.Sprintf("unknown predicate id %d", predID)}
	}
	if len(values) != p.Arity {
		return false, &Error{Kind: KindArityMismatch, Message: fmt.Sprintf(
			"predicate %q: got %d values, arity %d", p.Name, len(values), p.Arity)}
	}
	for i, v := range values {
		switch p.ArgTypes[i] {
		case ir.IntType, ir.RangeType:
			if v.Kind != runtime.IntKind {
				return false, &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
					"predicate %q argument %d declared %s but got a symbol", p.Name, i, p.ArgTypes[i])}
			}
		case ir.SymbolType:
			if v.Kind != runtime.SymbolKind {
				return false, &Error{Kind: KindTypeMismatch, Message: fmt.Sprintf(
					"predicate %q argument %d declared symbol but got an int", p.Name, i)}
			}
		}
	}
	e.syncRelations()
	tup := make(runtime.Tuple, len(values))
	copy(tup, values)
	return e.rels[predID].InsertBaseUnique(tup), nil
}

// LoadRulesFromString parses source, builds IR against a scratch copy of
// the predicate table, and only commits it (and inserts the parsed facts)
// on success — a failure leaves the engine's rule set and predicate table
// exactly as they were (spec §7: "Partial state is discarded").
func (e *Engine) LoadRulesFromString(source string) error {
	astProg, err := ast.Parse(source)
	if err != nil {
		e.logger.Debug("rule parse failed", "error", err)
		return &Error{Kind: KindParse, Message: err.Error()}
	}
	return e.loadProgram(astProg)
}

// LoadRulesFromFile is a convenience wrapper over LoadRulesFromString (spec
// §4.7), additionally decoding a `.dlc` compiled payload directly rather
// than re-parsing source text when path carries that extension.
func (e *Engine) LoadRulesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: KindIO, Message: err.Error()}
	}
	if strings.HasSuffix(path, ".dlc") {
		astProg, err := codec.Decode(data)
		if err != nil {
			e.logger.Debug("rule decode failed", "path", path, "error", err)
			return &Error{Kind: KindParse, Message: err.Error()}
		}
		return e.loadProgram(astProg)
	}
	return e.LoadRulesFromString(string(data))
}

func (e *Engine) loadProgram(astProg *ast.Program) error {
	scratch := e.preds.Clone()
	res, err := ir.Build(astProg, scratch, e.interner)
	if err != nil {
		e.logger.Debug("rule build failed", "error", err)
		return wrapIRError(err)
	}

	e.preds = scratch
	e.program = res.Program
	e.syncRelations()

	if res.ClearDerived {
		for i := 0; i < e.preds.Len(); i++ {
			if e.preds.Get(int32(i)).IsIDB {
				e.rels[i].ClearBase()
			}
		}
	}

	var insertErrs *multierror.Error
	for _, fact := range res.Facts {
		id, ok := e.preds.Lookup(fact.Pred)
		if !ok {
			insertErrs = multierror.Append(insertErrs, fmt.Errorf("fact predicate %q not registered", fact.Pred))
			continue
		}
		tup := make(runtime.Tuple, len(fact.Args))
		for i, a := range fact.Args {
			if a.IsInt {
				tup[i] = runtime.Int(a.Int)
			} else {
				tup[i] = runtime.Symbol(e.interner.Intern(a.Str))
			}
		}
		e.rels[id].InsertBaseUnique(tup)
	}
	return insertErrs.ErrorOrNil()
}

// Evaluate runs the fixpoint loop of spec §4.6 over the currently loaded
// program. A no-op (returns nil) if no rules have been loaded yet.
func (e *Engine) Evaluate(ctx context.Context) error {
	if e.program == nil {
		return nil
	}
	if err := eval.Evaluate(ctx, e.program, e.rels, e.logger); err != nil {
		return &Error{Kind: KindEvaluate, Message: err.Error()}
	}
	return nil
}

// RelationView is a borrowed, read-only view over a relation's base tuples
// (spec §4.7: "pointer + count"); it is invalidated by any subsequent
// mutation of the engine (fact insertion, rule load, evaluation).
type RelationView struct {
	PredicateID int32
	Tuples      []runtime.Tuple
}

// GetRelationView returns the view for predID, or false if predID is
// unknown (spec §7: "relation view for unknown predicate returns sentinel,
// not error").
func (e *Engine) GetRelationView(predID int32) (RelationView, bool) {
	if predID < 0 || int(predID) >= len(e.rels) {
		return RelationView{}, false
	}
	return RelationView{PredicateID: predID, Tuples: e.rels[predID].Base.All()}, true
}

// syncRelations grows rels to match preds, allocating a fresh Relation for
// every predicate ID registered since the last sync. Existing relations
// (and their accumulated base facts) are left untouched, which is what
// lets facts survive a rule reload (spec §4.7).
func (e *Engine) syncRelations() {
	for i := len(e.rels); i < e.preds.Len(); i++ {
		p := e.preds.Get(int32(i))
		e.rels = append(e.rels, runtime.NewRelation(p.Arity, p.Stratum))
	}
}

func wrapIRError(err error) error {
	if irErr, ok := err.(*ir.Error); ok {
		return &Error{Kind: irErr.Kind, Message: irErr.Message}
	}
	return &Error{Kind: KindBuild, Message: err.Error()}
}
