// Package form implements the form-state engine: a Form owns reactive stores
// for values, errors, touched and dirty flags and the submitting state, runs
// an optional Resolver to derive errors, and hands widgets the bindings they
// need to feed user input back in.
//
// Validation is opt-in. Without a resolver every trigger succeeds and clears
// the error set. With one, per-field triggers (blur, controlled change,
// SetValue) merge a single field's result into the existing errors, while the
// whole-form trigger used by HandleSubmit replaces them.
//
// A Form is published to descendant code through a context.Context:
//
//	ctx = form.WithForm(ctx, f)
//	...
//	f := form.MustFromContext(ctx)
package form
