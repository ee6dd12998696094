package form

import "context"

// Result is the outcome of a resolver call. It is either Accepted or
// Rejected; the unexported method keeps other implementations out.
type Result interface {
	isResult()
}

// Accepted reports that the values passed validation. Values may carry a
// normalised copy; the engine treats it as informational and never writes it
// back into the form.
type Accepted struct {
	Values Values
}

// Rejected reports per-field validation messages keyed by dotted path.
type Rejected struct {
	Errors FieldErrors
}

func (Accepted) isResult() {}
func (Rejected) isResult() {}

// Accept builds an Accepted result.
func Accept(values Values) Result {
	return Accepted{Values: values}
}

// Reject builds a Rejected result.
func Reject(errs FieldErrors) Result {
	return Rejected{Errors: errs}
}

// ErrorsOf returns the field errors carried by r, or nil for Accepted and nil
// results.
func ErrorsOf(r Result) FieldErrors {
	if rejected, ok := r.(Rejected); ok {
		return rejected.Errors
	}
	return nil
}

// Resolver validates a full or partial value tree. A returned error means the
// resolver could not decide (for example a remote validator was
// unreachable); rejected values are reported through Rejected instead.
//
// Resolve may block; the engine waits for it using the caller's context and
// imposes no timeout of its own.
//
// Per-field validation passes a nested tree holding only that field, so
// checking "user.email" sees {"user": {"email": v}}, never a flat
// {"user.email": v} key.
type Resolver interface {
	Resolve(ctx context.Context, values Values) (Result, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(ctx context.Context, values Values) (Result, error)

// Resolve delegates to the underlying function.
func (fn ResolverFunc) Resolve(ctx context.Context, values Values) (Result, error) {
	return fn(ctx, values)
}
