package itemstate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is matched by every *InvalidTransitionError.
	ErrInvalidTransition = errors.New("itemstate: invalid transition")

	// ErrUnknownStatus is returned by ParseStatus for unrecognized values.
	ErrUnknownStatus = errors.New("itemstate: unknown status")
)

// InvalidTransitionError indicates that event is not allowed from status From.
type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("itemstate: no transition from status '%s' for event '%s'", e.From, e.Event)
}

// Unwrap lets errors.Is(err, ErrInvalidTransition) succeed.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func NewInvalidTransitionError(from Status, event Event) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Event: event}
}

func IsInvalidTransitionError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}
