package form

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadDefaults decodes a YAML (or JSON) document into Values suitable for
// WithDefaultValues. An empty document yields empty values.
func LoadDefaults(r io.Reader) (Values, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("form: decode defaults: %w", err)
	}
	if raw == nil {
		return Values{}, nil
	}
	values, ok := normalizeYAML(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("form: defaults must be a mapping, got %T", raw)
	}
	return values, nil
}

func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return typed
	}
}
