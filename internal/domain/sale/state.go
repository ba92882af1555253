package sale

import (
	"fmt"

	"pos-checkout/internal/pkg/errs"
)

var ErrInvalidTransition = errs.New("invalid commit state transition")

// State is the lifecycle of one commit attempt.
type State string

const (
	StateDrafting   State = "drafting"
	StateValidating State = "validating"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
	StateConflicted State = "conflicted"
)

var transitions = map[State][]State{
	StateDrafting:   {StateValidating},
	StateValidating: {StateCommitting, StateRejected},
	StateCommitting: {StateCommitted, StateConflicted, StateRejected},
	// one automatic retry re-enters validation
	StateConflicted: {StateValidating},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateRejected || s == StateConflicted
}

func (s State) String() string {
	return string(s)
}

// Flow tracks the state of one commit call.
type Flow struct {
	state   State
	history []State
}

func NewFlow() *Flow {
	return &Flow{state: StateDrafting, history: []State{StateDrafting}}
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) History() []State {
	out := make([]State, len(f.history))
	copy(out, f.history)
	return out
}

func (f *Flow) Advance(next State) error {
	if !f.state.CanTransitionTo(next) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", f.state, next)
	}
	f.state = next
	f.history = append(f.history, next)
	return nil
}

// CommitError is returned for every failed commit and records the terminal state
// the attempt ended in. It unwraps to the underlying cause.
type CommitError struct {
	State State
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("sale %s: %v", e.State, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
