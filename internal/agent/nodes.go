package agent

import (
	"context"
	"fmt"
	"time"

	"dayplan/internal/calendar"
	"dayplan/internal/logging"
	"dayplan/internal/task"
)

// parseStep turns the raw request into a structured task. A parser failure
// aborts the run.
func (a *Agent) parseStep(ctx context.Context, s *State) (Update, error) {
	started := time.Now()
	tk, err := a.parser.Parse(ctx, s.UserInput, a.now())
	a.metrics.RecordParserCall(ctx, time.Since(started), err)
	if err != nil {
		return Update{}, fmt.Errorf("failed to parse request: %w", err)
	}
	if err := tk.Validate(); err != nil {
		return Update{}, fmt.Errorf("parser produced an invalid task: %w", err)
	}
	return Update{Task: &tk}, nil
}

// fetchStep reads the target day's events from every account. A failing
// account is logged and skipped; if every account fails the day simply looks
// empty, which downstream steps treat as "no events" rather than an error.
func (a *Agent) fetchStep(ctx context.Context, s *State) (Update, error) {
	events := []calendar.Event{}
	for _, account := range a.accounts {
		started := time.Now()
		got, err := a.store.List(ctx, account, s.Task.Date)
		a.metrics.RecordCalendarOp(ctx, "list", account, time.Since(started), err)
		if err != nil {
			a.logger.Error("failed to fetch events, skipping account",
				logging.Account(account),
				logging.Err(err))
			continue
		}
		events = append(events, got...)
	}
	return Update{Events: &events}, nil
}

// queryStep searches all accounts for past and future occurrences of the
// task's title and reports the most relevant one.
func (a *Agent) queryStep(ctx context.Context, s *State) (Update, error) {
	now := a.now()
	timeMin := now.UTC().Add(-searchWindow)
	timeMax := now.UTC().Add(searchWindow)

	var results []calendar.Event
	for _, account := range a.accounts {
		started := time.Now()
		got, err := a.store.Search(ctx, account, s.Task.Title, timeMin, timeMax)
		a.metrics.RecordCalendarOp(ctx, "search", account, time.Since(started), err)
		if err != nil {
			a.logger.Error("failed to search events, skipping account",
				logging.Account(account),
				logging.Err(err))
			continue
		}
		results = append(results, got...)
	}

	decision := historyReport(s.Task.Title, results, now)
	return Update{FinalDecision: &decision}, nil
}

// resolveStep renders the occupied blocks for the target day and the free
// time remaining inside the working window.
func (a *Agent) resolveStep(ctx context.Context, s *State) (Update, error) {
	report, err := availabilityReport(s.Task.Date, s.Events)
	if err != nil {
		return Update{}, err
	}
	return Update{FinalDecision: &report}, nil
}

// summarizeStep renders the per-account agenda for the target day.
func (a *Agent) summarizeStep(ctx context.Context, s *State) (Update, error) {
	report := dailyAgenda(s.Task.Date, s.Events, a.accounts)
	return Update{FinalDecision: &report}, nil
}

// writeStep decides whether the presentation layer should offer the booking
// form. The decision text passes through untouched; the actual insert is the
// presentation layer's separately-triggered action.
func (a *Agent) writeStep(ctx context.Context, s *State) (Update, error) {
	needsBooking := s.Task.Intent == task.IntentCreate
	return Update{NeedsBooking: &needsBooking}, nil
}
