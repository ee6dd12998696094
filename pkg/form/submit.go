package form

import (
	"context"
	"log/slog"
)

// SubmitFunc receives a snapshot of the values once they pass validation.
type SubmitFunc func(ctx context.Context, values Values) error

// SubmitHandler is what HandleSubmit returns; widgets call it when the user
// submits. ev may be nil when there is no native event to suppress.
type SubmitHandler func(ctx context.Context, ev *SubmitEvent) error

// SubmitEvent carries the triggering event's default action. The handler
// always prevents it.
type SubmitEvent struct {
	prevented bool
}

// PreventDefault suppresses the event's default action.
func (e *SubmitEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *SubmitEvent) DefaultPrevented() bool {
	return e.prevented
}

// SubmitOption configures a single submit handler.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	onInvalid func(ctx context.Context, errs FieldErrors)
}

// OnInvalid registers fn to receive the errors when validation blocks a
// submit.
func OnInvalid(fn func(ctx context.Context, errs FieldErrors)) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.onInvalid = fn
	}
}

// HandleSubmit wraps cb in the submit pipeline: mark submitting, validate the
// whole form, call cb only when valid, then clear submitting.
//
// A validation failure is not an error: the handler returns nil and the
// errors store holds the messages. Errors returned by cb or the resolver are
// returned unchanged once submitting has been cleared.
func (f *Form) HandleSubmit(cb SubmitFunc, options ...SubmitOption) SubmitHandler {
	cfg := submitConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(ctx context.Context, ev *SubmitEvent) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if ev != nil {
			ev.PreventDefault()
		}
		if !f.beginSubmit() {
			f.logger.Debug("submit rejected: already in progress")
			return ErrSubmitInProgress
		}

		success := false
		defer func() { f.endSubmit(success) }()

		valid, err := f.Trigger(ctx)
		if err != nil {
			return err
		}
		if !valid {
			errs := f.errors.Get()
			f.logger.Debug("submit blocked by validation", slog.Int("errors", len(errs)))
			if cfg.onInvalid != nil {
				cfg.onInvalid(ctx, cloneErrors(errs))
			}
			return nil
		}

		if cb != nil {
			if err := cb(ctx, f.GetValues()); err != nil {
				return err
			}
		}
		success = true
		f.logger.Debug("submit completed")
		return nil
	}
}

// beginSubmit and endSubmit only touch the in-flight count under submitMu.
// The submitting and stats stores are written after the lock is released, so
// their subscribers may start another submit.
func (f *Form) beginSubmit() bool {
	f.submitMu.Lock()
	if f.serialSubmit && f.inflight > 0 {
		f.submitMu.Unlock()
		return false
	}
	f.inflight++
	f.submitMu.Unlock()

	f.publishSubmitting()
	f.stats.Update(func(s SubmitStats) SubmitStats {
		s.Count++
		return s
	})
	return true
}

func (f *Form) endSubmit(success bool) {
	f.submitMu.Lock()
	f.inflight--
	f.submitMu.Unlock()

	f.stats.Update(func(s SubmitStats) SubmitStats {
		s.Submitted = true
		s.Successful = success
		return s
	})
	f.publishSubmitting()
}

// publishSubmitting stores whether any submit is in flight. The count is read
// inside the store update so racing publishers cannot leave a stale flag.
func (f *Form) publishSubmitting() {
	f.submitting.Update(func(bool) bool {
		f.submitMu.Lock()
		defer f.submitMu.Unlock()
		return f.inflight > 0
	})
}
