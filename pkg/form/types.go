package form

import (
	"maps"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
)

// RootErrorKey holds form-level messages that cannot be attached to a single
// field, such as unmapped server errors.
const RootErrorKey = "root"

// Values is the nested value tree of a form. Nested records are
// map[string]any and lists are []any.
type Values = map[string]any

// FieldErrors maps a dotted field path to a human readable message. A missing
// key means the field has no error.
type FieldErrors = map[string]string

// FlagMap records per-path booleans such as touched and dirty.
type FlagMap = map[string]bool

// SubmitStats tracks submit attempts since the last reset.
type SubmitStats struct {
	Count      int
	Submitted  bool
	Successful bool
}

// FormState is a read-only snapshot combining every store of a Form.
type FormState struct {
	Values             Values
	Errors             FieldErrors
	Touched            FlagMap
	Dirty              FlagMap
	IsDirty            bool
	IsValid            bool
	IsSubmitting       bool
	SubmitCount        int
	IsSubmitted        bool
	IsSubmitSuccessful bool
}

func cloneErrors(src FieldErrors) FieldErrors {
	if len(src) == 0 {
		return FieldErrors{}
	}
	return maps.Clone(src)
}

func cloneFlags(src FlagMap) FlagMap {
	if len(src) == 0 {
		return FlagMap{}
	}
	return maps.Clone(src)
}

func cloneValues(src Values) Values {
	return fieldpath.CloneMap(src)
}
