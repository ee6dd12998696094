package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldpath"
	"github.com/goliatone/go-formstate/pkg/form"
)

func TestInputEvent_Normalize(t *testing.T) {
	cases := []struct {
		name string
		ev   form.InputEvent
		want any
	}{
		{name: "checkbox", ev: form.InputEvent{Type: form.InputCheckbox, Value: "on", Checked: true}, want: true},
		{name: "number", ev: form.InputEvent{Type: form.InputNumber, Value: " 42.5 "}, want: 42.5},
		{name: "range", ev: form.InputEvent{Type: form.InputRange, Value: "3"}, want: float64(3)},
		{name: "number unparsable", ev: form.InputEvent{Type: form.InputNumber, Value: "4x"}, want: "4x"},
		{name: "text", ev: form.InputEvent{Type: form.InputText, Value: "42"}, want: "42"},
		{name: "untyped", ev: form.InputEvent{Value: "raw"}, want: "raw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.ev.Normalize()); diff != "" {
				t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegister_InputDefersValidationToBlur(t *testing.T) {
	ctx := context.Background()
	var calls []form.Values
	f := newCredentialsForm(&calls)

	reg, err := f.Register("password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Name != "password" || reg.Value != "" {
		t.Fatalf("unexpected registration: %+v", reg)
	}

	reg.OnInput(form.InputEvent{Type: form.InputPassword, Value: "abc"})
	if len(calls) != 0 {
		t.Fatalf("input must not validate, got %d resolver calls", len(calls))
	}
	state := f.State()
	if !state.Dirty["password"] || state.Touched["password"] {
		t.Fatalf("expected dirty but untouched after input: %+v", state)
	}

	if err := reg.OnBlur(ctx); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected blur to validate once, got %d", len(calls))
	}
	if !f.State().Touched["password"] {
		t.Fatalf("expected touched after blur")
	}
	if _, ok := f.Errors().Get()["password"]; !ok {
		t.Fatalf("expected short password error after blur")
	}
	if _, ok := f.Errors().Get()["email"]; ok {
		t.Fatalf("blur on password must not record email errors")
	}
}

func TestRegister_PreservesOtherPaths(t *testing.T) {
	f := form.New(form.WithDefaultValues(form.Values{
		"user":   map[string]any{"name": "Ada", "email": ""},
		"accept": false,
	}))

	email, err := f.Register("user.email")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	email.OnInput(form.InputEvent{Value: "ada@example.com"})

	accept, err := f.Register("accept")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	accept.OnInput(form.InputEvent{Type: form.InputCheckbox, Checked: true})

	want := form.Values{
		"user":   map[string]any{"name": "Ada", "email": "ada@example.com"},
		"accept": true,
	}
	if diff := cmp.Diff(want, f.GetValues()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(form.FlagMap{"user.email": true, "accept": true}, f.Dirty().Get()); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_InvalidPath(t *testing.T) {
	f := form.New()
	if _, err := f.Register("a."); !errors.Is(err, fieldpath.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if _, err := f.Control(""); !errors.Is(err, fieldpath.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestRegister_Sanitizer(t *testing.T) {
	f := form.New(form.WithSanitizer(form.StrictSanitizer()))
	reg, err := f.Register("bio")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.OnInput(form.InputEvent{Value: "<b>Ada</b> & co"})
	if got, _ := f.GetValue("bio"); got != "Ada & co" {
		t.Fatalf("expected markup stripped, got %q", got)
	}

	reg.OnInput(form.InputEvent{Type: form.InputCheckbox, Checked: true})
	if got, _ := f.GetValue("bio"); got != true {
		t.Fatalf("sanitizer must only touch strings, got %v", got)
	}
}

func TestControl_ChangeValidatesImmediately(t *testing.T) {
	ctx := context.Background()
	var calls []form.Values
	f := newCredentialsForm(&calls)

	ctrl, err := f.Control("email")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	if err := ctrl.OnChange(ctx, ""); err != nil {
		t.Fatalf("change: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected immediate validation, got %d calls", len(calls))
	}
	state := f.State()
	if !state.Dirty["email"] || !state.Touched["email"] {
		t.Fatalf("expected dirty and touched: %+v", state)
	}
	if state.Errors["email"] != "email is required" {
		t.Fatalf("expected email error, got %v", state.Errors)
	}

	if err := ctrl.OnChange(ctx, "a@b.com"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, ok := f.Errors().Get()["email"]; ok {
		t.Fatalf("expected email error removed")
	}
}

func TestWatch(t *testing.T) {
	ctx := context.Background()
	f := form.New(form.WithDefaultValues(form.Values{"count": 1}))

	var seen []any
	stop, err := f.Watch("count", func(v any) { seen = append(seen, v) })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	_ = f.SetValue(ctx, "count", 2)
	_ = f.SetValue(ctx, "other", "x")
	stop()
	_ = f.SetValue(ctx, "count", 3)

	if diff := cmp.Diff([]any{1, 2, 2}, seen); diff != "" {
		t.Fatalf("watch mismatch (-want +got):\n%s", diff)
	}
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	f := newCredentialsForm(nil)

	if err := f.SetValue(ctx, "email", ""); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := f.Unregister("email"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	state := f.State()
	if _, ok := state.Values["email"]; ok {
		t.Fatalf("expected email removed from values: %v", state.Values)
	}
	if _, ok := state.Errors["email"]; ok || state.Dirty["email"] || state.Touched["email"] {
		t.Fatalf("expected email bookkeeping cleared: %+v", state)
	}
	if _, ok := f.DefaultValues()["email"]; !ok {
		t.Fatalf("defaults must be kept")
	}
	if err := f.Unregister("a..b"); !errors.Is(err, fieldpath.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestUnregister_ClearsNestedFields(t *testing.T) {
	ctx := context.Background()
	f := form.New(form.WithDefaultValues(form.Values{
		"user":     map[string]any{"email": "", "name": ""},
		"username": "",
	}))

	for _, path := range []string{"user.email", "user.name", "username"} {
		if err := f.SetValue(ctx, path, "x"); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
		f.SetError(path, "bad")
	}
	if err := f.Unregister("user"); err != nil {
		t.Fatalf("unregister: %v", err)
	}

	state := f.State()
	if _, ok := state.Values["user"]; ok {
		t.Fatalf("expected user removed from values: %v", state.Values)
	}
	want := form.FieldErrors{"username": "bad"}
	if diff := cmp.Diff(want, state.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(form.FlagMap{"username": true}, state.Dirty); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}
}
