package ast

import "fmt"

// SyntaxError is a parse-time error (spec §4.2/§7), carrying a Kind from the
// taxonomy spec.md names ("unexpected token", "too-many-arguments",
// "non-predicate head", "comparison operator missing", "unterminated
// string") plus a couple of natural extensions the grammar needs (ground
// fact violations, empty rule bodies) that spec.md's bullet list doesn't
// enumerate but its prose requires ("Variables are not permitted in
// Facts.").
type SyntaxError struct {
	Kind      string
	Message   string
	Line, Col int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Message)
}

const (
	KindUnexpectedToken  = "unexpected-token"
	KindTooManyArguments = "too-many-arguments"
	KindNonPredicateHead = "non-predicate-head"
	KindMissingCompareOp = "comparison-operator-missing"
	KindUnterminatedStr  = "unterminated-string"
	KindVariableInFact   = "variable-in-fact"
	KindEmptyBody        = "empty-rule-body"
)
