package engine

import "fmt"

// Error is a facade-level error (spec §7: "Runtime (engine): fact insertion
// arity/type mismatch; relation view for unknown predicate (returns
// sentinel, not error)"). Failures from lower layers are wrapped here: a
// parse or .dlc decode failure gets KindParse and an evaluation failure
// KindEvaluate, with the lower layer's full error text as the Message; an IR
// build failure keeps the IR error's own Kind (e.g. "unsafe-rule") and
// Message. Either way a caller branching on engine.Error still sees which
// layer actually failed.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

const (
	KindInvalidID     = "invalid-id"
	KindArityMismatch = "arity-mismatch"
	KindTypeMismatch  = "type-mismatch"
	KindParse         = "parse-error"
	KindBuild         = "build-error"
	KindEvaluate      = "evaluate-error"
	KindIO            = "io-error"
)
