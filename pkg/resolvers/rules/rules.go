// Package rules provides a form.Resolver built from declarative per-field
// constraints (required, numeric bounds, length bounds and patterns).
package rules

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/form"
)

// Field lists the constraints for one dotted path. Nil pointers disable a
// constraint. Message, when set, replaces every generated message.
type Field struct {
	Required  bool
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	Message   string
}

// Resolver validates values against a set of Field rules.
type Resolver struct {
	fields   map[string]compiled
	paths    []string
	messages Messages
}

// Messages formats generated messages. Zero fields fall back to defaults.
type Messages struct {
	Required  string
	Min       string
	Max       string
	MinLength string
	MaxLength string
	Pattern   string
	Type      string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMessages overrides the default message formats. Formats receive the
// constraint value as their only argument.
func WithMessages(m Messages) Option {
	return func(r *Resolver) {
		if m.Required != "" {
			r.messages.Required = m.Required
		}
		if m.Min != "" {
			r.messages.Min = m.Min
		}
		if m.Max != "" {
			r.messages.Max = m.Max
		}
		if m.MinLength != "" {
			r.messages.MinLength = m.MinLength
		}
		if m.MaxLength != "" {
			r.messages.MaxLength = m.MaxLength
		}
		if m.Pattern != "" {
			r.messages.Pattern = m.Pattern
		}
		if m.Type != "" {
			r.messages.Type = m.Type
		}
	}
}

type compiled struct {
	Field
	path    fieldpath.Path
	pattern *regexp.Regexp
}

var _ form.Resolver = (*Resolver)(nil)

// New compiles fields. Malformed paths and patterns are reported up front.
func New(fields map[string]Field, options ...Option) (*Resolver, error) {
	r := &Resolver{
		fields: make(map[string]compiled, len(fields)),
		messages: Messages{
			Required:  "required",
			Min:       "must be at least %v",
			Max:       "must be at most %v",
			MinLength: "must be at least %d characters",
			MaxLength: "must be at most %d characters",
			Pattern:   "does not match required pattern",
			Type:      "has an unexpected type %T",
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	for raw, field := range fields {
		p, err := fieldpath.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("rules: field %q: %w", raw, err)
		}
		entry := compiled{Field: field, path: p}
		if expr := strings.TrimSpace(field.Pattern); expr != "" {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("rules: field %q: compile pattern: %w", raw, err)
			}
			entry.pattern = re
		}
		key := p.String()
		r.fields[key] = entry
		r.paths = append(r.paths, key)
	}
	sort.Strings(r.paths)
	return r, nil
}

// Resolve checks every rule whose path is present in values, plus required
// rules for absent paths. Per-field triggers only read the entry of the field
// they validate, so extra entries from a projection are harmless.
func (r *Resolver) Resolve(ctx context.Context, values form.Values) (form.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	errs := form.FieldErrors{}
	for _, key := range r.paths {
		rule := r.fields[key]
		value, ok := fieldpath.GetPath(values, rule.path)
		if !ok && !rule.Required {
			continue
		}
		if msg := r.check(rule, value); msg != "" {
			if rule.Message != "" {
				msg = rule.Message
			}
			errs[key] = msg
		}
	}
	if len(errs) > 0 {
		return form.Reject(errs), nil
	}
	return form.Accept(values), nil
}

func (r *Resolver) check(rule compiled, value any) string {
	if isEmpty(value) {
		if rule.Required {
			return r.messages.Required
		}
		return ""
	}

	switch v := value.(type) {
	case string:
		return r.checkString(rule, v)
	case bool:
		return ""
	case []any:
		return r.checkLength(rule, len(v))
	default:
		if n, ok := toFloat(v); ok {
			return r.checkNumber(rule, n)
		}
		if rule.Min != nil || rule.Max != nil || rule.MinLength != nil || rule.MaxLength != nil || rule.pattern != nil {
			return fmt.Sprintf(r.messages.Type, value)
		}
		return ""
	}
}

func (r *Resolver) checkString(rule compiled, value string) string {
	if msg := r.checkLength(rule, utf8.RuneCountInString(value)); msg != "" {
		return msg
	}
	if rule.pattern != nil && !rule.pattern.MatchString(value) {
		return r.messages.Pattern
	}
	return ""
}

func (r *Resolver) checkLength(rule compiled, n int) string {
	if rule.MinLength != nil && n < *rule.MinLength {
		return fmt.Sprintf(r.messages.MinLength, *rule.MinLength)
	}
	if rule.MaxLength != nil && n > *rule.MaxLength {
		return fmt.Sprintf(r.messages.MaxLength, *rule.MaxLength)
	}
	return ""
}

func (r *Resolver) checkNumber(rule compiled, n float64) string {
	if rule.Min != nil && n < *rule.Min {
		return fmt.Sprintf(r.messages.Min, *rule.Min)
	}
	if rule.Max != nil && n > *rule.Max {
		return fmt.Sprintf(r.messages.Max, *rule.Max)
	}
	return ""
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Float is a helper for building Field.Min / Field.Max literals.
func Float(v float64) *float64 {
	return &v
}

// Int is a helper for building Field.MinLength / Field.MaxLength literals.
func Int(v int) *int {
	return &v
}
