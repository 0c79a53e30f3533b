package agent

import (
	"dayplan/internal/calendar"
	"dayplan/internal/task"
)

// State is the record threaded through one workflow run. It is created with
// only UserInput and RunID populated and owned by the orchestrator until the
// run ends; the presentation layer may keep the final state around to drive
// the booking action.
type State struct {
	// RunID identifies the run in logs.
	RunID string
	// UserInput is the raw request text.
	UserInput string
	// Task is the parsed request, set by the parse step.
	Task *task.Task
	// Events holds the fetched events for the target date, set by the fetch
	// step.
	Events []calendar.Event
	// FinalDecision is the rendered report or answer.
	FinalDecision string
	// NeedsBooking tells the presentation layer to offer the booking form.
	NeedsBooking bool
}

// Update is the partial result a step hands back. Nil fields leave the
// corresponding state field untouched; the orchestrator merges updates in
// transition order, so within one run the last writer of a field wins.
type Update struct {
	Task          *task.Task
	Events        *[]calendar.Event
	FinalDecision *string
	NeedsBooking  *bool
}

// apply merges an update into the state.
func (s *State) apply(u Update) {
	if u.Task != nil {
		s.Task = u.Task
	}
	if u.Events != nil {
		s.Events = *u.Events
	}
	if u.FinalDecision != nil {
		s.FinalDecision = *u.FinalDecision
	}
	if u.NeedsBooking != nil {
		s.NeedsBooking = *u.NeedsBooking
	}
}
