// Package cueschema validates form values with a CUE schema.
//
// The schema is unified with the encoded values and the result is required
// to be concrete, so fields the schema declares but the values omit are
// reported as errors under their own path.
package cueschema

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Resolver unifies values with a compiled schema.
type Resolver struct {
	mu         sync.Mutex
	ctx        *cue.Context
	schema     cue.Value
	definition string
	filename   string
	// selectors leading to schema; stripped from error paths
	prefix []string
}

var _ form.Resolver = (*Resolver)(nil)

// Option configures Compile.
type Option func(*Resolver)

// WithDefinition selects a definition (for example "#Signup") inside the
// compiled source instead of validating against the top-level value.
func WithDefinition(name string) Option {
	return func(r *Resolver) {
		r.definition = strings.TrimSpace(name)
	}
}

// WithFilename names the source in compile errors.
func WithFilename(name string) Option {
	return func(r *Resolver) {
		r.filename = name
	}
}

// Compile builds a Resolver from CUE source.
func Compile(src string, options ...Option) (*Resolver, error) {
	r := &Resolver{ctx: cuecontext.New()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	var buildOpts []cue.BuildOption
	if r.filename != "" {
		buildOpts = append(buildOpts, cue.Filename(r.filename))
	}
	value := r.ctx.CompileString(src, buildOpts...)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("cueschema: compile: %w", err)
	}
	if r.definition != "" {
		value = value.LookupPath(cue.ParsePath(r.definition))
		if !value.Exists() {
			return nil, fmt.Errorf("cueschema: definition %q not found", r.definition)
		}
		if err := value.Err(); err != nil {
			return nil, fmt.Errorf("cueschema: definition %q: %w", r.definition, err)
		}
	}
	for _, sel := range value.Path().Selectors() {
		r.prefix = append(r.prefix, sel.String())
	}
	r.schema = value
	return r, nil
}

// Resolve encodes values, unifies them with the schema and reports every
// conflict or missing concrete value keyed by its dotted path.
func (r *Resolver) Resolve(ctx context.Context, values form.Values) (form.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if values == nil {
		values = form.Values{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	encoded := r.ctx.Encode(normalize(values))
	if err := encoded.Err(); err != nil {
		return nil, fmt.Errorf("cueschema: encode values: %w", err)
	}
	unified := r.schema.Unify(encoded)
	verr := unified.Validate(cue.Concrete(true))
	if verr == nil {
		return form.Accept(values), nil
	}

	errs := form.FieldErrors{}
	for _, e := range cueerrors.Errors(verr) {
		key := strings.Join(trimPrefix(e.Path(), r.prefix), ".")
		if key == "" {
			key = form.RootErrorKey
		}
		if _, exists := errs[key]; exists {
			continue
		}
		format, args := e.Msg()
		errs[key] = fmt.Sprintf(format, args...)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("cueschema: validate: %w", verr)
	}
	return form.Reject(errs), nil
}

func trimPrefix(path, prefix []string) []string {
	if len(prefix) == 0 || len(path) < len(prefix) {
		return path
	}
	for i, sel := range prefix {
		if path[i] != sel {
			return path
		}
	}
	return path[len(prefix):]
}

// normalize turns whole float64 values into int64 so numbers coming from
// number inputs unify with CUE's int.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1<<53 {
			return int64(v)
		}
		return v
	default:
		return value
	}
}
