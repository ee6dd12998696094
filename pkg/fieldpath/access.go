package fieldpath

import "strconv"

// Get resolves a dotted path inside root. Maps are walked by key and lists by
// numeric index. It reports false when a segment is missing, when traversal
// hits a scalar before the path is exhausted, or when raw is malformed.
func Get(root map[string]any, raw string) (any, bool) {
	p, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return GetPath(root, p)
}

// GetPath is Get for an already parsed path.
func GetPath(root map[string]any, p Path) (any, bool) {
	if root == nil || p.IsZero() {
		return nil, false
	}
	var current any = root
	for _, segment := range p.segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := index(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at the dotted path and returns the updated root. Every map
// and list along the path is copied before it is written; values off the path
// are shared with the input, which is never mutated. Missing intermediate
// nodes become plain maps and scalars on the path are replaced by maps. An
// index equal to a list's length appends; any other write a list cannot hold
// turns it into a map keyed by element index.
func Set(root map[string]any, raw string, value any) (map[string]any, error) {
	p, err := Parse(raw)
	if err != nil {
		return root, err
	}
	return SetPath(root, p, value), nil
}

// SetPath is Set for an already parsed path.
func SetPath(root map[string]any, p Path, value any) map[string]any {
	if p.IsZero() {
		return root
	}
	out, _ := setNode(root, p.segments, value).(map[string]any)
	return out
}

func setNode(node any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	segment, rest := segments[0], segments[1:]

	if list, ok := node.([]any); ok {
		idx, numeric := index(segment)
		switch {
		case numeric && idx < len(list):
			clone := append([]any(nil), list...)
			clone[idx] = setNode(list[idx], rest, value)
			return clone
		case numeric && idx == len(list):
			clone := make([]any, len(list), len(list)+1)
			copy(clone, list)
			return append(clone, setNode(nil, rest, value))
		}
		node = listToMap(list)
	}

	src, _ := node.(map[string]any)
	clone := make(map[string]any, len(src)+1)
	for k, v := range src {
		clone[k] = v
	}
	clone[segment] = setNode(src[segment], rest, value)
	return clone
}

// listToMap keeps list elements under their index keys when a write cannot
// stay a list.
func listToMap(list []any) map[string]any {
	out := make(map[string]any, len(list)+1)
	for i, v := range list {
		out[strconv.Itoa(i)] = v
	}
	return out
}

// Delete removes the entry at the dotted path using the same copy-on-write
// rules as Set. Missing paths return root unchanged. List elements are not
// removed; only map keys are.
func Delete(root map[string]any, raw string) map[string]any {
	p, err := Parse(raw)
	if err != nil {
		return root
	}
	return DeletePath(root, p)
}

// DeletePath is Delete for an already parsed path.
func DeletePath(root map[string]any, p Path) map[string]any {
	if _, ok := GetPath(root, p); !ok {
		return root
	}
	out, _ := deleteNode(root, p.segments).(map[string]any)
	return out
}

func deleteNode(node any, segments []string) any {
	segment, rest := segments[0], segments[1:]
	switch typed := node.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = v
		}
		if len(rest) == 0 {
			delete(clone, segment)
		} else {
			clone[segment] = deleteNode(typed[segment], rest)
		}
		return clone
	case []any:
		if len(rest) == 0 {
			return typed
		}
		idx, _ := index(segment)
		clone := append([]any(nil), typed...)
		clone[idx] = deleteNode(typed[idx], rest)
		return clone
	default:
		return node
	}
}

// Clone deep copies maps and lists. Other values are returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = Clone(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = Clone(v)
		}
		return clone
	default:
		return typed
	}
}

// CloneMap is Clone for the root mapping; a nil input yields an empty map.
func CloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out, _ := Clone(src).(map[string]any)
	return out
}
