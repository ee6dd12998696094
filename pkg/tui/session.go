// Package tui drives a form.Form from the terminal. Each field is bound the
// same way a widget would bind it: text-like prompts go through Register
// (input then blur), checkboxes and selects through Control.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// Session prompts for a list of fields and submits the bound form.
type Session struct {
	form        *form.Form
	fields      []Field
	driver      PromptDriver
	maxAttempts int
	logger      *slog.Logger
	visibility  visibility.Evaluator
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMaxAttempts bounds how often a single field is re-prompted and how
// many submits are tried. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVisibility replaces the evaluator used for Field.When rules.
func WithVisibility(evaluator visibility.Evaluator) Option {
	return func(s *Session) {
		if evaluator != nil {
			s.visibility = evaluator
		}
	}
}

// NewSession binds fields to f. The survey driver is used unless another one
// is supplied.
func NewSession(f *form.Form, fields []Field, options ...Option) (*Session, error) {
	if f == nil {
		return nil, errors.New("tui: form is nil")
	}
	s := &Session{
		form:        f,
		fields:      fields,
		maxAttempts: 3,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.visibility == nil {
		s.visibility = expr.New()
	}
	return s, nil
}

// Run prompts every field and submits. When submit validation fails the
// failing fields are prompted again until the attempts run out, in which
// case the returned error wraps ErrInvalid.
func (s *Session) Run(ctx context.Context) (form.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	var submitted form.Values
	submit := s.form.HandleSubmit(func(_ context.Context, values form.Values) error {
		submitted = values
		return nil
	})

	pending := s.fields
	for attempt := 1; ; attempt++ {
		for _, field := range pending {
			visible, err := s.visible(field)
			if err != nil {
				return nil, err
			}
			if !visible {
				continue
			}
			if err := s.promptField(ctx, field); err != nil {
				return nil, err
			}
		}
		if err := submit(ctx, nil); err != nil {
			return nil, err
		}
		if submitted != nil {
			return submitted, nil
		}

		errs := s.form.Errors().Get()
		s.logger.Debug("submit rejected", slog.Int("attempt", attempt), slog.Int("errors", len(errs)))
		next, err := s.failing(errs)
		if err != nil {
			return nil, err
		}
		pending = next
		if attempt >= s.maxAttempts || len(pending) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalid, summarize(errs))
		}
		for _, field := range pending {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.label(), errs[field.Path]))
		}
	}
}

func (s *Session) promptField(ctx context.Context, field Field) error {
	for attempt := 1; ; attempt++ {
		if err := s.ask(ctx, field); err != nil {
			return err
		}
		msg, invalid := s.form.Errors().Get()[field.Path]
		if !invalid {
			return nil
		}
		_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.label(), msg))
		if attempt >= s.maxAttempts {
			// submit reports it again
			return nil
		}
	}
}

func (s *Session) ask(ctx context.Context, field Field) error {
	switch kind := field.kind(); kind {
	case form.InputCheckbox:
		ctrl, err := s.form.Control(field.Path)
		if err != nil {
			return err
		}
		current, _ := ctrl.Value.(bool)
		resp, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: field.label(),
			Default: current,
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		return ctrl.OnChange(ctx, resp)

	case form.InputSelect:
		ctrl, err := s.form.Control(field.Path)
		if err != nil {
			return err
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      field.label(),
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, stringify(ctrl.Value)),
			Help:         field.Help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			return fmt.Errorf("tui: field %q: selection %d out of range", field.Path, idx)
		}
		return ctrl.OnChange(ctx, field.Options[idx])

	default:
		reg, err := s.form.Register(field.Path)
		if err != nil {
			return err
		}
		cfg := InputConfig{Message: field.label(), Help: field.Help}
		var resp string
		if kind == form.InputPassword {
			resp, err = s.driver.Password(ctx, cfg)
		} else {
			cfg.Default = stringify(reg.Value)
			resp, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		reg.OnInput(form.InputEvent{Type: kind, Value: resp})
		return reg.OnBlur(ctx)
	}
}

func (s *Session) visible(field Field) (bool, error) {
	if strings.TrimSpace(field.When) == "" {
		return true, nil
	}
	return s.visibility.Eval(field.Path, field.When, s.form.GetValues())
}

// failing lists the visible fields holding an error.
func (s *Session) failing(errs form.FieldErrors) ([]Field, error) {
	var out []Field
	for _, field := range s.fields {
		if _, ok := errs[field.Path]; !ok {
			continue
		}
		visible, err := s.visible(field)
		if err != nil {
			return nil, err
		}
		if visible {
			out = append(out, field)
		}
	}
	return out, nil
}

func summarize(errs form.FieldErrors) string {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+errs[key])
	}
	return strings.Join(parts, ", ")
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
