package fieldpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_RejectsMalformedPaths(t *testing.T) {
	for _, raw := range []string{"", "  ", "a..b", ".a", "a.", "a. .b"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Parse(%q): expected ErrInvalidPath, got %v", raw, err)
		}
	}

	p, err := Parse("user.address.city")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"user", "address", "city"}, p.Segments()); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	user, _ := Parse("user")
	if !p.HasPrefix(user) || !p.HasPrefix(p) {
		t.Fatalf("expected user and itself to be prefixes of %s", p)
	}
	use, _ := Parse("use")
	if p.HasPrefix(use) {
		t.Fatalf("prefix match must be segment based")
	}
}

func TestGet(t *testing.T) {
	root := map[string]any{
		"email": "a@b.com",
		"user": map[string]any{
			"name": "Ada",
			"tags": []any{"x", map[string]any{"id": 7}},
		},
	}

	cases := []struct {
		path string
		want any
		ok   bool
	}{
		{path: "email", want: "a@b.com", ok: true},
		{path: "user.name", want: "Ada", ok: true},
		{path: "user.tags.0", want: "x", ok: true},
		{path: "user.tags.1.id", want: 7, ok: true},
		{path: "user.tags.9", ok: false},
		{path: "user.missing", ok: false},
		{path: "email.domain", ok: false},
		{path: "user..name", ok: false},
	}
	for _, tc := range cases {
		got, ok := Get(root, tc.path)
		if ok != tc.ok {
			t.Fatalf("Get(%q): expected ok=%v, got %v", tc.path, tc.ok, ok)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Get(%q) mismatch (-want +got):\n%s", tc.path, diff)
		}
	}

	if _, ok := Get(nil, "email"); ok {
		t.Fatalf("expected nil root to miss")
	}
}

func TestSet_RoundTripAndCopyOnWrite(t *testing.T) {
	profile := map[string]any{"bio": "hi"}
	root := map[string]any{
		"user": map[string]any{
			"name":    "Ada",
			"profile": profile,
		},
		"settings": map[string]any{"theme": "dark"},
	}
	before := Clone(root)

	out, err := Set(root, "user.name", "Grace")
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	if got, _ := Get(out, "user.name"); got != "Grace" {
		t.Fatalf("expected written value, got %v", got)
	}
	if diff := cmp.Diff(before, any(root)); diff != "" {
		t.Fatalf("input root was mutated (-want +got):\n%s", diff)
	}

	outSettings := out["settings"].(map[string]any)
	rootSettings := root["settings"].(map[string]any)
	outSettings["marker"] = true
	if _, shared := rootSettings["marker"]; !shared {
		t.Fatalf("expected sibling subtree to be shared, not copied")
	}
	delete(rootSettings, "marker")

	outProfile := out["user"].(map[string]any)["profile"].(map[string]any)
	outProfile["marker"] = true
	if _, shared := profile["marker"]; !shared {
		t.Fatalf("expected off-path child to be shared")
	}
	delete(profile, "marker")

	if got, _ := Get(out, "settings.theme"); got != "dark" {
		t.Fatalf("expected unrelated path preserved, got %v", got)
	}
}

func TestSet_CreatesAndOverwritesIntermediates(t *testing.T) {
	out, err := Set(nil, "a.b.c", 1)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	want := map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("created structure mismatch (-want +got):\n%s", diff)
	}

	out, err = Set(map[string]any{"a": "scalar"}, "a.b", true)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	want = map[string]any{"a": map[string]any{"b": true}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("overwrite mismatch (-want +got):\n%s", diff)
	}

	if _, err := Set(out, "a..b", 1); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestSet_Lists(t *testing.T) {
	items := []any{"a", "b"}
	root := map[string]any{"items": items}

	out, err := Set(root, "items.1", "z")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "z"}, out["items"]); diff != "" {
		t.Fatalf("list update mismatch (-want +got):\n%s", diff)
	}
	if items[1] != "b" {
		t.Fatalf("input list was mutated")
	}

	out, err = Set(root, "items.name", "x")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	want := map[string]any{"0": "a", "1": "b", "name": "x"}
	if diff := cmp.Diff(want, out["items"]); diff != "" {
		t.Fatalf("non-index segment on list mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_ListGrowthKeepsSiblings(t *testing.T) {
	tags := []any{"a"}
	root := map[string]any{"tags": tags}

	out, err := Set(root, "tags.1", "b")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, out["tags"]); diff != "" {
		t.Fatalf("append mismatch (-want +got):\n%s", diff)
	}
	if got, ok := Get(out, "tags.0"); !ok || got != "a" {
		t.Fatalf("expected tags.0 to survive, got %v ok=%v", got, ok)
	}
	if len(tags) != 1 {
		t.Fatalf("input list was mutated")
	}

	out, err = Set(root, "tags.1.label", "b")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	want := []any{"a", map[string]any{"label": "b"}}
	if diff := cmp.Diff(want, out["tags"]); diff != "" {
		t.Fatalf("nested append mismatch (-want +got):\n%s", diff)
	}

	out, err = Set(root, "tags.3", "d")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"0": "a", "3": "d"}, out["tags"]); diff != "" {
		t.Fatalf("sparse write mismatch (-want +got):\n%s", diff)
	}
	if got, ok := Get(out, "tags.0"); !ok || got != "a" {
		t.Fatalf("expected tags.0 to survive sparse write, got %v ok=%v", got, ok)
	}
}

func TestDelete(t *testing.T) {
	root := map[string]any{"user": map[string]any{"name": "Ada", "age": 3}}
	out := Delete(root, "user.age")
	want := map[string]any{"user": map[string]any{"name": "Ada"}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("delete mismatch (-want +got):\n%s", diff)
	}
	if _, ok := Get(root, "user.age"); !ok {
		t.Fatalf("input root was mutated")
	}
	if got := Delete(root, "user.missing"); got["user"].(map[string]any)["age"] != 3 {
		t.Fatalf("expected missing path to be a no-op")
	}
}
