package eval

import "github.com/ritamzico/rulr/internal/runtime"

// env is the per-rule-instance variable binding environment (spec §9: "an
// Env holding a bounded array of {bound, value} slots keyed by variable
// index"). Its size is fixed per rule at ir.Rule.NumVars.
type env struct {
	bound []bool
	vals  []runtime.Value
}

func newEnv(n int) env {
	return env{bound: make([]bool, n), vals: make([]runtime.Value, n)}
}

// clone returns an independent copy, used whenever body matching branches
// (spec §4.6: "recurse with a copy of the environment").
func (e env) clone() env {
	b := make([]bool, len(e.bound))
	copy(b, e.bound)
	v := make([]runtime.Value, len(e.vals))
	copy(v, e.vals)
	return env{bound: b, vals: v}
}

func (e *env) bind(i int, v runtime.Value) {
	e.bound[i] = true
	e.vals[i] = v
}

func (e *env) get(i int) (runtime.Value, bool) {
	return e.vals[i], e.bound[i]
}
