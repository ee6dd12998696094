package cueschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstate/pkg/form"
)

const signup = `
#Signup: {
	email:    string & =~"^[^@]+@[^@]+$"
	password: string & =~"^.{4,}$"
	age?:     int & >=18
	address?: {
		city: string
	}
}
`

func newSignup(t *testing.T) *Resolver {
	t.Helper()
	r, err := Compile(signup, WithDefinition("#Signup"), WithFilename("signup.cue"))
	require.NoError(t, err)
	return r
}

func TestResolve_Accepts(t *testing.T) {
	r := newSignup(t)

	values := form.Values{"email": "a@b.com", "password": "hunter2", "age": 30}
	result, err := r.Resolve(context.Background(), values)
	require.NoError(t, err)

	accepted, ok := result.(form.Accepted)
	require.True(t, ok, "expected Accepted, got %T", result)
	assert.Equal(t, values, accepted.Values)
}

func TestResolve_RejectsConflicts(t *testing.T) {
	r := newSignup(t)

	result, err := r.Resolve(context.Background(), form.Values{
		"email":    "nope",
		"password": "ab",
		"age":      12,
	})
	require.NoError(t, err)

	errs := form.ErrorsOf(result)
	for _, key := range []string{"email", "password", "age"} {
		assert.Contains(t, errs, key)
		assert.NotEmpty(t, errs[key])
	}
}

func TestResolve_MissingFieldIsReported(t *testing.T) {
	r := newSignup(t)

	result, err := r.Resolve(context.Background(), form.Values{"email": "a@b.com"})
	require.NoError(t, err)

	errs := form.ErrorsOf(result)
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "email")
}

func TestResolve_NestedPath(t *testing.T) {
	r := newSignup(t)

	result, err := r.Resolve(context.Background(), form.Values{
		"email":    "a@b.com",
		"password": "hunter2",
		"address":  map[string]any{"city": 7},
	})
	require.NoError(t, err)
	assert.Contains(t, form.ErrorsOf(result), "address.city")
}

func TestResolve_WholeFloatsUnifyWithInt(t *testing.T) {
	r := newSignup(t)

	result, err := r.Resolve(context.Background(), form.Values{
		"email":    "a@b.com",
		"password": "hunter2",
		"age":      float64(21),
	})
	require.NoError(t, err)
	assert.Empty(t, form.ErrorsOf(result))
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`email: string &`)
	require.Error(t, err)

	_, err = Compile(signup, WithDefinition("#Missing"))
	require.Error(t, err)
}

func TestResolver_DrivesForm(t *testing.T) {
	r := newSignup(t)
	ctx := context.Background()
	f := form.New(
		form.WithDefaultValues(form.Values{"email": "", "password": ""}),
		form.WithResolver(r),
	)

	require.NoError(t, f.SetValue(ctx, "email", "a@b.com"))
	assert.NotContains(t, f.Errors().Get(), "email")

	valid, err := f.Trigger(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Contains(t, f.Errors().Get(), "password")
}
