package form

import (
	"sort"
	"strconv"
	"strings"
)

// ErrorMapping splits a server error payload into field-level messages keyed
// by dotted paths and form-level messages that matched no field.
type ErrorMapping struct {
	Fields FieldErrors
	Form   []string
}

// MapServerErrors normalises payload keys (dotted paths, JSON pointers such as
// "/body/user/email", bracket indices such as "items[0].name") onto the paths
// present in known. A key matching no known path becomes a form-level
// message. Multiple messages for a field are joined with "; ".
func MapServerErrors(known Values, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: FieldErrors{}}
	if len(payload) == 0 {
		return mapping
	}

	paths := make(map[string]struct{})
	collectPaths(known, "", paths)

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	grouped := make(map[string][]string)
	for _, rawPath := range keys {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		mapped, formLevel := mapErrorPath(rawPath, paths)
		if formLevel {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		grouped[mapped] = append(grouped[mapped], messages...)
	}

	for path, messages := range grouped {
		mapping.Fields[path] = strings.Join(normalizeMessages(messages), "; ")
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// SetServerErrors maps payload against the current values and merges the
// result into the errors store. Form-level messages land under RootErrorKey.
func (f *Form) SetServerErrors(payload map[string][]string) ErrorMapping {
	mapping := MapServerErrors(f.values.Get(), payload)
	if len(mapping.Fields) == 0 && len(mapping.Form) == 0 {
		return mapping
	}
	f.errors.Update(func(current FieldErrors) FieldErrors {
		next := cloneErrors(current)
		for path, message := range mapping.Fields {
			next[path] = message
		}
		if len(mapping.Form) > 0 {
			next[RootErrorKey] = strings.Join(mapping.Form, "; ")
		}
		return next
	})
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, paths map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", true
	}
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		if path := longestMatchingPath(variant, paths); len(path) > len(best) {
			best = path
		}
	}
	if best == "" {
		return "", true
	}
	return best, false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func segmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)
	add := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, candidate)
	}

	unwrapped := dropWrapperSegments(segments)
	add(segments)
	add(unwrapped)
	add(stripNumericSegments(segments))
	add(stripNumericSegments(unwrapped))
	return variants
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, paths map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := paths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func collectPaths(value any, prefix string, dest map[string]struct{}) {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			path := joinPath(prefix, key)
			dest[path] = struct{}{}
			collectPaths(child, path, dest)
		}
	case []any:
		for idx, child := range typed {
			path := joinPath(prefix, strconv.Itoa(idx))
			dest[path] = struct{}{}
			collectPaths(child, path, dest)
		}
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", RootErrorKey, "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
