package form

import (
	"context"
	"fmt"
)

// formContextKey is the context key under which a Form is published.
type formContextKey struct{}

// WithForm publishes f to descendants of ctx.
func WithForm(ctx context.Context, f *Form) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, formContextKey{}, f)
}

// FromContext returns the Form published by an ancestor, or ErrNoForm.
func FromContext(ctx context.Context) (*Form, error) {
	if ctx == nil {
		return nil, ErrNoForm
	}
	f, _ := ctx.Value(formContextKey{}).(*Form)
	if f == nil {
		return nil, ErrNoForm
	}
	return f, nil
}

// MustFromContext is FromContext for code that cannot run without a form. A
// missing form is a composition bug, so it panics.
func MustFromContext(ctx context.Context) *Form {
	f, err := FromContext(ctx)
	if err != nil {
		panic(fmt.Errorf("%w: publish one with form.WithForm", err))
	}
	return f
}
