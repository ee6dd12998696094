package expr

import (
	"testing"

	"github.com/goliatone/go-formstate/pkg/form"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	eval := New()

	cases := []struct {
		name   string
		rule   string
		values form.Values
		want   bool
	}{
		{name: "empty rule", rule: "  ", want: true},
		{name: "boolean comparison", rule: "enabled == true", values: form.Values{"enabled": true}, want: true},
		{name: "bare boolean", rule: "enabled", values: form.Values{"enabled": true}, want: true},
		{name: "negation", rule: "!enabled", values: form.Values{"enabled": false}, want: true},
		{name: "nested lookup", rule: `cta.headline == "Hello"`, values: form.Values{"cta": map[string]any{"headline": "Hello"}}, want: true},
		{name: "conjunction", rule: `enabled == true && role == "admin"`, values: form.Values{"enabled": true, "role": "admin"}, want: true},
		{name: "conjunction mismatch", rule: `enabled == true && role == "admin"`, values: form.Values{"enabled": true, "role": "user"}, want: false},
		{name: "disjunction", rule: `enabled == true || role == "admin"`, values: form.Values{"enabled": false, "role": "admin"}, want: true},
		{name: "numeric", rule: "count > 2", values: form.Values{"count": 3}, want: true},
		{name: "truthy string", rule: "name", values: form.Values{"name": "Ada"}, want: true},
		{name: "falsy string", rule: "name", values: form.Values{"name": ""}, want: false},
		{name: "missing reference hides", rule: "missing == true", values: form.Values{}, want: false},
		{name: "present null check", rule: "enabled != null", values: form.Values{"enabled": false}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eval.Eval("field", tc.rule, tc.values)
			if err != nil {
				t.Fatalf("Eval returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
			}
		})
	}
}

func TestEvaluatorSyntaxError(t *testing.T) {
	t.Parallel()

	if _, err := New().Eval("field", "enabled ==", form.Values{"enabled": true}); err == nil {
		t.Fatalf("expected parse error")
	}
}
