// Package visibility decides whether a field is shown given the current form
// values.
package visibility

import "github.com/goliatone/go-formstate/pkg/form"

// Evaluator reports whether the field at fieldPath is visible under rule.
// An empty rule is always visible.
type Evaluator interface {
	Eval(fieldPath, rule string, values form.Values) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, values form.Values) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, values form.Values) (bool, error) {
	return fn(fieldPath, rule, values)
}
