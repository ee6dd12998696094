package form

import (
	"io"
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/store"
)

// Form bundles the stores, validation gate, bindings and submit pipeline of a
// single logical form. Its stores are owned by the instance and never shared
// with other forms.
type Form struct {
	id           string
	defaults     Values
	resolver     Resolver
	logger       *slog.Logger
	sanitizer    Sanitizer
	serialSubmit bool

	values     *store.Store[Values]
	errors     *store.Store[FieldErrors]
	touched    *store.Store[FlagMap]
	dirty      *store.Store[FlagMap]
	submitting *store.Store[bool]
	stats      *store.Store[SubmitStats]
	state      *store.Derived[FormState]

	submitMu sync.Mutex
	inflight int
}

// New constructs a Form. Without WithDefaultValues the form starts empty;
// without WithResolver validation always passes.
func New(options ...Option) *Form {
	f := &Form{
		id:       uuid.NewString(),
		defaults: Values{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.values = store.New(cloneValues(f.defaults))
	f.errors = store.New(FieldErrors{})
	f.touched = store.New(FlagMap{})
	f.dirty = store.New(FlagMap{})
	f.submitting = store.New(false)
	f.stats = store.New(SubmitStats{})
	f.state = store.Derive(f.snapshot, f.values, f.errors, f.touched, f.dirty, f.submitting, f.stats)

	f.logger = f.logger.With(slog.String("form_id", f.id))
	return f
}

// ID returns the instance identifier used in log records.
func (f *Form) ID() string {
	return f.id
}

// Values exposes the value tree store. Stored maps must be treated as
// immutable; use SetValue or bindings to change them.
func (f *Form) Values() store.Readable[Values] {
	return f.values
}

// Errors exposes the field errors store.
func (f *Form) Errors() store.Readable[FieldErrors] {
	return f.errors
}

// Touched exposes the touched flags store.
func (f *Form) Touched() store.Readable[FlagMap] {
	return f.touched
}

// Dirty exposes the dirty flags store.
func (f *Form) Dirty() store.Readable[FlagMap] {
	return f.dirty
}

// IsSubmitting exposes the submitting flag store.
func (f *Form) IsSubmitting() store.Readable[bool] {
	return f.submitting
}

// FormState exposes a derived view combining every store.
func (f *Form) FormState() store.Readable[FormState] {
	return f.state
}

// State returns the current FormState snapshot.
func (f *Form) State() FormState {
	return f.snapshot()
}

// DefaultValues returns a copy of the configured defaults.
func (f *Form) DefaultValues() Values {
	return cloneValues(f.defaults)
}

// GetValues returns a deep copy of the current values.
func (f *Form) GetValues() Values {
	return cloneValues(f.values.Get())
}

// GetValue reads the value at a dotted path.
func (f *Form) GetValue(path string) (any, bool) {
	return fieldpath.Get(f.values.Get(), path)
}

func (f *Form) snapshot() FormState {
	errs := f.errors.Get()
	dirty := f.dirty.Get()
	stats := f.stats.Get()
	return FormState{
		Values:             f.values.Get(),
		Errors:             errs,
		Touched:            f.touched.Get(),
		Dirty:              dirty,
		IsDirty:            len(dirty) > 0,
		IsValid:            len(errs) == 0,
		IsSubmitting:       f.submitting.Get(),
		SubmitCount:        stats.Count,
		IsSubmitted:        stats.Submitted,
		IsSubmitSuccessful: stats.Successful,
	}
}

// SetError records message for path without consulting the resolver. It is
// meant for server-side or cross-field errors.
func (f *Form) SetError(path, message string) {
	f.errors.Update(func(current FieldErrors) FieldErrors {
		next := cloneErrors(current)
		next[path] = message
		return next
	})
}

// ClearErrors removes the errors for the given paths, or every error when no
// path is given.
func (f *Form) ClearErrors(paths ...string) {
	if len(paths) == 0 {
		f.errors.Set(FieldErrors{})
		return
	}
	f.errors.Update(func(current FieldErrors) FieldErrors {
		next := cloneErrors(current)
		for _, path := range paths {
			delete(next, path)
		}
		return next
	})
}

// Reset replaces the values with the defaults overlaid by values (top-level
// keys of values win) and clears errors, touched and dirty flags and submit
// statistics. It is the only operation that clears touched and dirty.
func (f *Form) Reset(values Values) {
	next := cloneValues(f.defaults)
	maps.Copy(next, cloneValues(values))

	f.values.Set(next)
	f.errors.Set(FieldErrors{})
	f.touched.Set(FlagMap{})
	f.dirty.Set(FlagMap{})
	f.stats.Set(SubmitStats{})
}

func (f *Form) write(p fieldpath.Path, value any) {
	f.values.Update(func(current Values) Values {
		return fieldpath.SetPath(current, p, value)
	})
}

func (f *Form) mark(flags *store.Store[FlagMap], key string) {
	flags.Update(func(current FlagMap) FlagMap {
		next := cloneFlags(current)
		next[key] = true
		return next
	})
}
