package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans text typed into registered fields.
type Sanitizer interface {
	Sanitize(string) string
}

// SanitizerFunc adapts a function into a Sanitizer.
type SanitizerFunc func(string) string

// Sanitize delegates to the underlying function.
func (fn SanitizerFunc) Sanitize(s string) string {
	return fn(s)
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// StrictSanitizer strips every HTML element from input while keeping plain
// text (including characters such as '&') unchanged.
func StrictSanitizer() Sanitizer {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return SanitizerFunc(func(s string) string {
		if !strings.ContainsAny(s, "<>&") {
			return s
		}
		return html.UnescapeString(strictPolicy.Sanitize(s))
	})
}
