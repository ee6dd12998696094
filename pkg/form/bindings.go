package form

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/store"
)

// InputType names the kind of control that produced an InputEvent.
type InputType string

const (
	InputText     InputType = "text"
	InputCheckbox InputType = "checkbox"
	InputNumber   InputType = "number"
	InputRange    InputType = "range"
	InputSelect   InputType = "select"
	InputTextArea InputType = "textarea"
	InputPassword InputType = "password"
)

// InputEvent is what a widget forwards on every input interaction.
type InputEvent struct {
	Type    InputType
	Value   string
	Checked bool
}

// Normalize extracts the value to store: a bool for checkboxes, a float64 for
// numeric controls holding a parseable number, and the raw string otherwise.
func (e InputEvent) Normalize() any {
	switch e.Type {
	case InputCheckbox:
		return e.Checked
	case InputNumber, InputRange:
		if n, err := strconv.ParseFloat(strings.TrimSpace(e.Value), 64); err == nil {
			return n
		}
		return e.Value
	default:
		return e.Value
	}
}

// Registration is the binding for uncontrolled widgets. Value is read once
// when Register is called; widgets re-register (or read Values()) to observe
// later changes.
type Registration struct {
	Name    string
	Value   any
	OnInput func(InputEvent)
	OnBlur  func(ctx context.Context) error
}

// Controller is the binding for widgets that parse their own input and hand
// over typed values.
type Controller struct {
	Name     string
	Value    any
	OnChange func(ctx context.Context, value any) error
}

// Register returns the binding for path. OnInput stores the normalised value
// and marks the field dirty without validating; OnBlur marks it touched and
// validates that field alone.
func (f *Form) Register(path string) (Registration, error) {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return Registration{}, err
	}
	key := p.String()
	value, _ := fieldpath.GetPath(f.values.Get(), p)

	return Registration{
		Name:  key,
		Value: value,
		OnInput: func(ev InputEvent) {
			next := ev.Normalize()
			if s, ok := next.(string); ok && f.sanitizer != nil {
				next = f.sanitizer.Sanitize(s)
			}
			f.write(p, next)
			f.mark(f.dirty, key)
		},
		OnBlur: func(ctx context.Context) error {
			f.mark(f.touched, key)
			_, err := f.triggerField(ctx, p)
			return err
		},
	}, nil
}

// Control returns the binding for path. OnChange stores the value, marks the
// field dirty and touched and validates it immediately, since controlled
// widgets report no separate blur.
func (f *Form) Control(path string) (Controller, error) {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return Controller{}, err
	}
	value, _ := fieldpath.GetPath(f.values.Get(), p)

	return Controller{
		Name:  p.String(),
		Value: value,
		OnChange: func(ctx context.Context, value any) error {
			return f.change(ctx, p, value)
		},
	}, nil
}

// SetValue writes value at path, marks it dirty and touched and validates the
// field, exactly like a controlled change.
func (f *Form) SetValue(ctx context.Context, path string, value any) error {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return err
	}
	return f.change(ctx, p, value)
}

func (f *Form) change(ctx context.Context, p fieldpath.Path, value any) error {
	key := p.String()
	f.write(p, value)
	f.mark(f.dirty, key)
	f.mark(f.touched, key)
	_, err := f.triggerField(ctx, p)
	return err
}

// Watch calls fn with the value at path now and after every values change.
// Missing paths yield nil.
func (f *Form) Watch(path string, fn func(any)) (func(), error) {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return func() {}, nil
	}
	return f.values.Subscribe(func(current Values) {
		value, _ := fieldpath.GetPath(current, p)
		fn(value)
	}), nil
}

// Unregister drops the value at path together with the error, touched and
// dirty entries of path and every field nested under it. Defaults are kept,
// so a later Reset brings the field back.
func (f *Form) Unregister(path string) error {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return err
	}
	f.values.Update(func(current Values) Values {
		return fieldpath.DeletePath(current, p)
	})
	f.errors.Update(func(current FieldErrors) FieldErrors {
		return dropUnder(current, p, cloneErrors)
	})
	for _, flags := range []*store.Store[FlagMap]{f.touched, f.dirty} {
		flags.Update(func(current FlagMap) FlagMap {
			return dropUnder(current, p, cloneFlags)
		})
	}
	return nil
}

// dropUnder removes the keys of m that name p or a descendant of p. m is
// returned untouched when nothing matches.
func dropUnder[V any](m map[string]V, p fieldpath.Path, clone func(map[string]V) map[string]V) map[string]V {
	var next map[string]V
	for key := range m {
		kp, err := fieldpath.Parse(key)
		if err != nil || !kp.HasPrefix(p) {
			continue
		}
		if next == nil {
			next = clone(m)
		}
		delete(next, key)
	}
	if next == nil {
		return m
	}
	return next
}
