package form

import "log/slog"

// Option configures a Form.
type Option func(*Form)

// WithDefaultValues seeds the form and the values Reset returns to. The map
// is deep copied.
func WithDefaultValues(values Values) Option {
	return func(f *Form) {
		f.defaults = cloneValues(values)
	}
}

// WithResolver installs the validation resolver. A nil resolver disables
// validation.
func WithResolver(resolver Resolver) Option {
	return func(f *Form) {
		f.resolver = resolver
	}
}

// WithLogger routes debug records about triggers and submits to logger. The
// default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSanitizer cleans string values written through Register bindings
// before they reach the values store.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(f *Form) {
		f.sanitizer = sanitizer
	}
}

// WithSerializedSubmit makes submit handlers reject a submit while another
// one is still pending. By default overlapping submits run independently.
func WithSerializedSubmit() Option {
	return func(f *Form) {
		f.serialSubmit = true
	}
}
