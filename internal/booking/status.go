package booking

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Label is the status as shown to people.
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// Terminal reports whether no action leads out of s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Action is an admin-issued lifecycle event.
type Action string

const (
	ActionAccept        Action = "accept"
	ActionReject        Action = "reject"
	ActionStartPlanning Action = "start_planning"
	ActionMarkComplete  Action = "mark_complete"
)

// Label is the action as shown to people.
func (a Action) Label() string {
	return strings.ReplaceAll(string(a), "_", " ")
}

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAccept, ActionReject, ActionStartPlanning, ActionMarkComplete:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action: %s", s)
	}
}

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusPending, ActionAccept}:          StatusAccepted,
	{StatusPending, ActionReject}:          StatusRejected,
	{StatusAccepted, ActionStartPlanning}:  StatusInProgress,
	{StatusInProgress, ActionMarkComplete}: StatusCompleted,
}

// Next returns the status reached by applying a to from.
func Next(from Status, a Action) (Status, bool) {
	to, ok := transitions[transitionKey{from, a}]
	return to, ok
}

// ActionFor finds the action that moves from into to, if one exists.
func ActionFor(from, to Status) (Action, bool) {
	for k, v := range transitions {
		if k.from == from && v == to {
			return k.action, true
		}
	}
	return "", false
}

// Actions lists the actions available from s, in a stable order.
func Actions(s Status) []Action {
	var out []Action
	for _, a := range []Action{ActionAccept, ActionReject, ActionStartPlanning, ActionMarkComplete} {
		if _, ok := Next(s, a); ok {
			out = append(out, a)
		}
	}
	return out
}

// ApplyTransition is the only way a booking's status changes. On success it
// returns a copy with the new status; otherwise b is returned as given along
// with a *TransitionError.
func ApplyTransition(b Booking, a Action) (Booking, error) {
	to, ok := Next(b.Status, a)
	if !ok {
		return b, &TransitionError{From: b.Status, Action: a}
	}
	next := b.clone()
	next.Status = to
	return next, nil
}
