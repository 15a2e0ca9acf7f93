package itemstate

import (
	"fmt"
	"strings"
)

// Status is the lifecycle position of a queued item.
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Completed  Status = "completed"
	Error      Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// Event triggers a status change.
type Event string

const (
	Start   Event = "start"
	Succeed Event = "succeed"
	Fail    Event = "fail"
	Retry   Event = "retry"
)

func (e Event) String() string {
	return string(e)
}

var allStatuses = []Status{Pending, Processing, Completed, Error}

var allEvents = []Event{Start, Succeed, Fail, Retry}

// transitions maps [from][event] to the resulting status.
var transitions = map[Status]map[Event]Status{
	Pending: {
		Start: Processing,
	},
	Processing: {
		Succeed: Completed,
		Fail:    Error,
	},
	Error: {
		Retry: Pending,
	},
	Completed: {},
}

// Fire returns the status reached by applying event to from.
// Unknown statuses and undefined edges yield an *InvalidTransitionError.
func Fire(from Status, event Event) (Status, error) {
	edges, ok := transitions[from]
	if !ok {
		return from, NewInvalidTransitionError(from, event)
	}
	to, ok := edges[event]
	if !ok {
		return from, NewInvalidTransitionError(from, event)
	}
	return to, nil
}

// CanFire reports whether event is allowed from status from.
func CanFire(from Status, event Event) bool {
	_, err := Fire(from, event)
	return err == nil
}

// IsTerminal reports whether no event is accepted from s.
func IsTerminal(s Status) bool {
	edges, ok := transitions[s]
	return ok && len(edges) == 0
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// ParseStatus converts a string into a known Status, ignoring case and
// surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return s, nil
}

// AllStatuses returns the known statuses in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Events returns the events accepted from s, in declaration order.
func Events(s Status) []Event {
	edges := transitions[s]
	out := make([]Event, 0, len(edges))
	for _, e := range allEvents {
		if _, ok := edges[e]; ok {
			out = append(out, e)
		}
	}
	return out
}
