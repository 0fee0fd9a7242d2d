package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotPayable        = errors.New("booking is not awaiting payment")
)

// TransitionError names the rejected move. Action is empty when the caller
// asked for a target status rather than an action.
type TransitionError struct {
	From   Status
	Action Action
	To     Status
}

func (e *TransitionError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("cannot move a booking from %s to %s", e.From.Label(), e.To.Label())
	}
	return fmt.Sprintf("cannot %s a booking that is %s", e.Action.Label(), e.From.Label())
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
