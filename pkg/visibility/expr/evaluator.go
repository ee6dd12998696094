// Package expr evaluates visibility rules written as CUE expressions.
//
// Top-level value keys are in scope as identifiers, so rules read like
// `enabled`, `!enabled`, `role == "admin" && count > 2` or
// `address.city != ""`.
package expr

import (
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/parser"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Evaluator compiles each rule against the encoded values.
//
// A rule that does not parse is an error. A rule that references a missing
// value, or does not evaluate to something concrete, hides the field.
// Non-boolean results are judged by truthiness: empty strings, zero numbers,
// empty lists and maps and null are false.
type Evaluator struct {
	mu  sync.Mutex
	ctx *cue.Context
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// New returns an evaluator with its own CUE context.
func New() *Evaluator { return &Evaluator{ctx: cuecontext.New()} }

// Eval compiles rule with the values in scope and reports whether it holds.
// An empty rule is always visible. Syntax errors are returned; rules that
// fail to evaluate or reference missing values report false.
func (e *Evaluator) Eval(fieldPath, rule string, values form.Values) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	if _, err := parser.ParseExpr(fieldPath, trimmed); err != nil {
		return false, fmt.Errorf("visibility: field %q: %w", fieldPath, err)
	}
	if values == nil {
		values = form.Values{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	scope := e.ctx.Encode(values)
	if err := scope.Err(); err != nil {
		return false, fmt.Errorf("visibility: encode values: %w", err)
	}
	result := e.ctx.CompileString(trimmed, cue.Scope(scope), cue.Filename(fieldPath))
	if result.Err() != nil || !result.IsConcrete() {
		return false, nil
	}
	var out any
	if err := result.Decode(&out); err != nil {
		return false, nil
	}
	return truthy(out), nil
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
