package tui

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/form"
)

// Field describes one prompt. Kind reuses the form input types; checkbox and
// select kinds are driven through a controlled binding, every other kind
// through Register.
type Field struct {
	Path    string         `yaml:"path"`
	Label   string         `yaml:"label,omitempty"`
	Help    string         `yaml:"help,omitempty"`
	Kind    form.InputType `yaml:"kind,omitempty"`
	Options []string       `yaml:"options,omitempty"`
	Secret  bool           `yaml:"secret,omitempty"`
	// When hides the field unless the rule holds for the current values.
	When string `yaml:"when,omitempty"`
}

func (f Field) label() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Path
}

func (f Field) kind() form.InputType {
	if f.Secret {
		return form.InputPassword
	}
	if f.Kind == "" {
		if len(f.Options) > 0 {
			return form.InputSelect
		}
		return form.InputText
	}
	return f.Kind
}

// LoadFields decodes a YAML list of fields and checks every path.
func LoadFields(r io.Reader) ([]Field, error) {
	var fields []Field
	if err := yaml.NewDecoder(r).Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("tui: decode fields: %w", err)
	}
	for i, field := range fields {
		p, err := fieldpath.Parse(field.Path)
		if err != nil {
			return nil, fmt.Errorf("tui: field %d: %w", i, err)
		}
		fields[i].Path = p.String()
		if fields[i].kind() == form.InputSelect && len(field.Options) == 0 {
			return nil, fmt.Errorf("tui: field %q: select needs options", field.Path)
		}
	}
	return fields, nil
}

// FieldsFromValues derives one field per leaf of values, sorted by path.
// Booleans become checkboxes and numbers numeric inputs.
func FieldsFromValues(values form.Values) []Field {
	var fields []Field
	collectFields("", values, &fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })
	return fields
}

func collectFields(prefix string, value any, out *[]Field) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			collectFields(next, val, out)
		}
	case []any:
		for idx, val := range v {
			collectFields(fmt.Sprintf("%s.%d", prefix, idx), val, out)
		}
	default:
		if prefix == "" {
			return
		}
		field := Field{Path: prefix, Kind: form.InputText}
		switch v.(type) {
		case bool:
			field.Kind = form.InputCheckbox
		case int, int64, float64:
			field.Kind = form.InputNumber
		}
		*out = append(*out, field)
	}
}
