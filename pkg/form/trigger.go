package form

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// Trigger runs validation and reports whether the checked fields are free of
// errors.
//
// With no paths the resolver sees a snapshot of every value and its verdict
// replaces the whole error set, clearing stale entries for fields that now
// pass. With paths, each field is validated on its own projection and only
// that field's entry is added, replaced or removed.
//
// Without a resolver Trigger clears every error and returns true.
func (f *Form) Trigger(ctx context.Context, paths ...string) (bool, error) {
	parsed := make([]fieldpath.Path, 0, len(paths))
	for _, raw := range paths {
		p, err := fieldpath.Parse(raw)
		if err != nil {
			return false, err
		}
		parsed = append(parsed, p)
	}

	if f.resolver == nil {
		f.errors.Set(FieldErrors{})
		return true, nil
	}

	if len(parsed) == 0 {
		return f.triggerAll(ctx)
	}

	valid := true
	for _, p := range parsed {
		ok, err := f.triggerField(ctx, p)
		if err != nil {
			return false, err
		}
		valid = valid && ok
	}
	return valid, nil
}

func (f *Form) triggerAll(ctx context.Context) (bool, error) {
	snapshot := cloneValues(f.values.Get())
	result, err := f.resolve(ctx, snapshot)
	if err != nil {
		return false, err
	}

	next := cloneErrors(ErrorsOf(result))
	f.errors.Set(next)

	f.logger.Debug("form validated",
		slog.Bool("valid", len(next) == 0),
		slog.Int("errors", len(next)),
	)
	return len(next) == 0, nil
}

func (f *Form) triggerField(ctx context.Context, p fieldpath.Path) (bool, error) {
	if f.resolver == nil {
		f.errors.Set(FieldErrors{})
		return true, nil
	}

	value, _ := fieldpath.GetPath(f.values.Get(), p)
	projection := fieldpath.SetPath(Values{}, p, fieldpath.Clone(value))

	result, err := f.resolve(ctx, projection)
	if err != nil {
		return false, err
	}

	key := p.String()
	message, failed := ErrorsOf(result)[key]
	f.errors.Update(func(current FieldErrors) FieldErrors {
		next := cloneErrors(current)
		if failed {
			next[key] = message
		} else {
			delete(next, key)
		}
		return next
	})

	f.logger.Debug("field validated",
		slog.String("path", key),
		slog.Bool("valid", !failed),
	)
	return !failed, nil
}

func (f *Form) resolve(ctx context.Context, values Values) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := f.resolver.Resolve(ctx, values)
	if err != nil {
		f.logger.Debug("resolver failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrResolver, err)
	}
	return result, nil
}
