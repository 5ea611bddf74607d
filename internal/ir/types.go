// Package ir defines the intermediate representation (spec §3/§4.3):
// numeric predicate IDs, interned symbols, per-rule variable indices, and
// the stratification the evaluator drives off of.
package ir

import "github.com/ritamzico/rulr/internal/ast"

// ArgType is a declared or inferred argument type (spec §3: "unknown |
// symbol | int | range").
type ArgType int

const (
	UnknownType ArgType = iota
	SymbolType
	IntType
	RangeType
)

func ParseArgType(name string) ArgType {
	switch name {
	case "symbol":
		return SymbolType
	case "int":
		return IntType
	case "range":
		return RangeType
	default:
		return UnknownType
	}
}

func (t ArgType) String() string {
	switch t {
	case SymbolType:
		return "symbol"
	case IntType:
		return "int"
	case RangeType:
		return "range"
	default:
		return "unknown"
	}
}

// Predicate is one row of the Predicate Table (spec §3: "Predicate
// Definition").
type Predicate struct {
	Name     string
	Arity    int
	Declared bool
	ArgTypes []ArgType
	Stratum  int
	IsIDB    bool
}

// TermKind tags an IR Term's variant (spec §3: "IR Term").
type TermKind int

const (
	IntTerm TermKind = iota
	SymbolTerm
	VarTerm
)

// Term is one IR-level term: an integer, an interned symbol ID, or a
// rule-local variable index.
type Term struct {
	Kind TermKind
	Int  int64
	Sym  int32
	Var  int
}

// Literal mirrors ast.Literal's variants, with predicate names replaced by
// predicate IDs and strings by symbol IDs (spec §3: "IR Literal").
type Literal struct {
	Kind ast.LitKind

	Pred int32 // PositiveLit / NegativeLit
	Args []Term

	LHS, RHS Term
	Op       ast.CompareOp   // ComparisonLit only
	Builtin  ast.BuiltinKind // BuiltinLit only
}

// Rule is a head predicate ID with head argument terms, a body literal
// list, and the count of distinct variables the rule uses (spec §3: "IR
// Rule").
type Rule struct {
	Head     int32
	HeadArgs []Term
	Body     []Literal
	NumVars  int
}

// Program is the full translated form (spec §3: "IR Program").
type Program struct {
	Predicates *Table
	Rules      []Rule
	MaxStratum int
}
