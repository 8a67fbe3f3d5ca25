package wizard

import (
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// Guard checks whether the current step may be left. A nil or empty
// result permits the transition.
type Guard func() validate.FieldErrors

// Machine walks an ordered sequence of steps. Forward movement is gated
// by a per-step guard; backward movement is free unless the terminal
// step locks the flow.
type Machine[S comparable] struct {
	steps          []S
	index          int
	lockedTerminal bool
}

// Option configures machine behavior.
type Option func(*options)

type options struct {
	lockedTerminal bool
}

// WithLockedTerminal makes the final step one-way: once reached, the flow
// can only restart via Reset.
func WithLockedTerminal() Option {
	return func(o *options) {
		o.lockedTerminal = true
	}
}

// New builds a machine positioned at the first step.
func New[S comparable](steps []S, opts ...Option) (*Machine[S], error) {
	if len(steps) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wizard requires at least two steps")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Machine[S]{steps: steps, lockedTerminal: o.lockedTerminal}, nil
}

// Current returns the active step.
func (m *Machine[S]) Current() S {
	return m.steps[m.index]
}

// AtTerminal reports whether the machine sits on its final step.
func (m *Machine[S]) AtTerminal() bool {
	return m.index == len(m.steps)-1
}

// Advance moves one step forward when the guard reports no errors.
// A non-empty FieldErrors result leaves the machine in place and is
// returned for the caller to surface inline.
func (m *Machine[S]) Advance(guard Guard) (validate.FieldErrors, error) {
	if m.AtTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "flow already complete")
	}
	if guard != nil {
		if errs := guard(); !errs.Valid() {
			return errs, nil
		}
	}
	m.index++
	return nil, nil
}

// Back moves to the previous step. It fails from the first step and,
// for locked-terminal flows, from the final step.
func (m *Machine[S]) Back() error {
	if m.index == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "already at the first step")
	}
	if m.lockedTerminal && m.AtTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "completed flow cannot go back")
	}
	m.index--
	return nil
}

// GoTo jumps directly to an earlier step. Forward jumps must go through
// Advance so guards are never skipped.
func (m *Machine[S]) GoTo(step S) error {
	target := -1
	for i, s := range m.steps {
		if s == step {
			target = i
			break
		}
	}
	if target == -1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown step")
	}
	if target > m.index {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot skip ahead")
	}
	if m.lockedTerminal && m.AtTerminal() && target < m.index {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "completed flow cannot go back")
	}
	m.index = target
	return nil
}

// Restore positions the machine at a previously reached step without
// re-running guards. Intended for resuming a persisted flow whose
// forward transitions were already validated.
func (m *Machine[S]) Restore(step S) error {
	for i, s := range m.steps {
		if s == step {
			m.index = i
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown step")
}

// Reset returns the machine to its first step.
func (m *Machine[S]) Reset() {
	m.index = 0
}
