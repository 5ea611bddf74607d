// Package rulr is an embeddable Datalog engine: declare predicates, insert
// facts, load stratified-negation rule sets from source or compiled form,
// run them to a semi-naive fixpoint, and read back derived relations.
package rulr

import (
	"context"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ritamzico/rulr/internal/engine"
	"github.com/ritamzico/rulr/internal/runtime"
	"github.com/ritamzico/rulr/internal/symtab"
)

type (
	// Error is the facade's error type (spec §7); Kind is one of the
	// engine.Kind* constants or, for a failed IR build, the IR builder's
	// own kind (such as "unsafe-rule" or "negation-cycle").
	Error = engine.Error
	// RelationView is a borrowed, read-only view of one predicate's base
	// tuples, inserted and derived alike (spec §4.7); it aliases engine
	// storage and is invalidated by any later mutation.
	RelationView = engine.RelationView
	// Value is a tagged int/symbol/range argument value (spec §3).
	Value = runtime.Value
	// SymbolTable is the interner an Engine can be handed via WithSymbolTable
	// (spec §4.7: "set_symbol_table").
	SymbolTable = symtab.Table
)

// Int and Symbol construct argument Values for InsertFact.
func Int(v int64) Value    { return runtime.Int(v) }
func Symbol(id int32) Value { return runtime.Symbol(id) }

// Option configures a Rulr at construction time.
type Option func(*engine.Engine)

// WithLogger attaches a structured logger (spec §4.7 "(new) Structured
// logging"), disabled (null logger) by default.
func WithLogger(l hclog.Logger) Option {
	return Option(engine.WithLogger(l))
}

// Rulr is the embeddable facade wrapping a single Engine (spec §5: a Rulr
// is single-threaded and non-reentrant — callers must not invoke methods
// concurrently on the same value).
type Rulr struct {
	engine *engine.Engine
}

// New returns an engine with an empty IR and a fresh default symbol table
// (spec §4.7: `create()`).
func New(opts ...Option) *Rulr {
	eopts := make([]engine.Option, len(opts))
	for i, o := range opts {
		eopts[i] = engine.Option(o)
	}
	return &Rulr{engine: engine.New(eopts...)}
}

// WithSymbolTable overrides the interner (spec §4.7: "optional: override
// interning"). Call before registering predicates or inserting facts.
func (r *Rulr) WithSymbolTable(t *SymbolTable) *Rulr {
	r.engine.SetSymbolTable(t)
	return r
}

// Load constructs a Rulr and loads the named rule set using the file
// loading strategy of spec §6: "<name>.dlc" is tried first, falling back
// to "<name>.dl" on any failure (missing file, bad magic, decompression
// failure — any of it).
func Load(name string, opts ...Option) (*Rulr, error) {
	r := New(opts...)
	if err := r.LoadRulesByName(name); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFile constructs a Rulr and loads rules from the exact path given,
// dispatching on its extension (".dlc" decodes the compiled form; anything
// else is parsed as source).
func LoadFile(path string, opts ...Option) (*Rulr, error) {
	r := New(opts...)
	if err := r.engine.LoadRulesFromFile(path); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRulesByName applies spec §6's file loading strategy against the
// already-constructed Rulr: try "<name>.dlc", then fall back to
// "<name>.dl" on any failure.
func (r *Rulr) LoadRulesByName(name string) error {
	if err := r.engine.LoadRulesFromFile(name + ".dlc"); err == nil {
		return nil
	}
	return r.engine.LoadRulesFromFile(name + ".dl")
}

// LoadRules parses source text and (re)builds the engine's IR from it
// (spec §4.7: `load_rules_from_string`).
func (r *Rulr) LoadRules(source string) error {
	return r.engine.LoadRulesFromString(source)
}

// LoadFacts reads path as source text and loads it the same way LoadRules
// does — a separately-supplied fact file is always source form (spec §6),
// never treated as compiled regardless of its extension.
func (r *Rulr) LoadFacts(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: engine.KindIO, Message: err.Error()}
	}
	return r.engine.LoadRulesFromString(string(data))
}

// RegisterPredicate registers (or idempotently re-validates) a predicate
// (spec §4.7: `register_predicate`).
func (r *Rulr) RegisterPredicate(name string, arity int, types []string) (int32, error) {
	return r.engine.RegisterPredicate(name, arity, types)
}

// GetPredicateID returns the ID registered for name, or false if none
// (spec §4.7: `get_predicate_id`).
func (r *Rulr) GetPredicateID(name string) (int32, bool) {
	return r.engine.GetPredicateID(name)
}

// InsertFact inserts values into predID's base relation (spec §4.7:
// `insert_fact`), returning whether the tuple was newly inserted.
func (r *Rulr) InsertFact(predID int32, values ...Value) (bool, error) {
	return r.engine.InsertFact(predID, values)
}

// ResolveSymbol returns the source text a symbol id was interned from
// (spec §6: CLI rendering of symbol values by name).
func (r *Rulr) ResolveSymbol(id int32) (string, bool) {
	return r.engine.ResolveSymbol(id)
}

// Evaluate runs the fixpoint loop described in spec §4.6 over the
// currently loaded rule set.
func (r *Rulr) Evaluate(ctx context.Context) error {
	return r.engine.Evaluate(ctx)
}

// GetRelationView returns a borrowed view over predID's base tuples
// (spec §4.7: `get_relation_view`), or false if predID is unknown.
func (r *Rulr) GetRelationView(predID int32) (RelationView, bool) {
	return r.engine.GetRelationView(predID)
}
