package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a dotted path is empty or contains empty
// segments.
var ErrInvalidPath = errors.New("fieldpath: invalid path")

// Path is a validated dotted field path such as "user.email" or
// "addresses.0.city". The zero value is not a valid path.
type Path struct {
	segments []string
}

// Parse validates raw and splits it into segments. It is the only place
// malformed paths are rejected; Get and Set rely on it.
func Parse(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(trimmed, ".")
	for idx, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			return Path{}, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, idx, raw)
		}
	}
	return Path{segments: segments}, nil
}

// String returns the dotted representation.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Len reports the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsZero reports whether p was never parsed.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// HasPrefix reports whether prefix names p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.Len() == 0 || prefix.Len() > p.Len() {
		return false
	}
	for idx, segment := range prefix.segments {
		if p.segments[idx] != segment {
			return false
		}
	}
	return true
}

func index(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
