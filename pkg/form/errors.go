package form

import "errors"

var (
	// ErrNoForm is returned (or raised by MustFromContext) when no Form was
	// published on the context. It signals incorrect composition.
	ErrNoForm = errors.New("form: no form instance in context")
	// ErrResolver wraps failures reported by the resolver itself, as opposed
	// to values it rejected.
	ErrResolver = errors.New("form: resolver failed")
	// ErrSubmitInProgress is returned by a submit handler when serialised
	// submits are enabled and another submit is still pending.
	ErrSubmitInProgress = errors.New("form: submit already in progress")
)
