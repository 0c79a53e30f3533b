package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dayplan/internal/calendar"
	"dayplan/internal/instrumentation"
	"dayplan/internal/logging"
	"dayplan/internal/parser"
	"dayplan/internal/task"
)

// Step names a node in the workflow graph.
type Step string

const (
	StepParse     Step = "parse"
	StepQuery     Step = "query"
	StepFetch     Step = "fetch"
	StepResolve   Step = "resolve"
	StepSummarize Step = "summarize"
	StepWrite     Step = "write"
	StepEnd       Step = "end"
)

// handler executes one step against the current state and returns the fields
// it changed.
type handler func(ctx context.Context, s *State) (Update, error)

// Config carries the optional agent dependencies.
type Config struct {
	// Accounts lists the calendar accounts every run works across, in
	// reporting order. Defaults to the two known accounts.
	Accounts []string
	// Now supplies the current time; tests pin it.
	Now func() time.Time
	// Logger receives run diagnostics.
	Logger *slog.Logger
	// Metrics records run, step and calendar-operation metrics.
	Metrics *instrumentation.Metrics
}

// Agent orchestrates the workflow: it owns the step handlers, the transition
// rules and the state merge.
type Agent struct {
	parser   parser.Parser
	store    calendar.Store
	accounts []string
	now      func() time.Time
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
}

// New creates a workflow agent.
func New(p parser.Parser, store calendar.Store, cfg Config) *Agent {
	a := &Agent{
		parser:   p,
		store:    store,
		accounts: cfg.Accounts,
		now:      cfg.Now,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
	if len(a.accounts) == 0 {
		for _, acc := range task.Accounts() {
			a.accounts = append(a.accounts, string(acc))
		}
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// handlerFor returns the handler for a step. Unknown steps are a programming
// error and abort the run.
func (a *Agent) handlerFor(step Step) (handler, error) {
	switch step {
	case StepParse:
		return a.parseStep, nil
	case StepQuery:
		return a.queryStep, nil
	case StepFetch:
		return a.fetchStep, nil
	case StepResolve:
		return a.resolveStep, nil
	case StepSummarize:
		return a.summarizeStep, nil
	case StepWrite:
		return a.writeStep, nil
	}
	return nil, fmt.Errorf("no handler for step %q", step)
}

// next returns the step following the given one. The two branch points route
// on the parsed intent; everything else is unconditional.
func (a *Agent) next(step Step, s *State) Step {
	switch step {
	case StepParse:
		return routeIntent(s.Task.Intent)
	case StepFetch:
		return routeAfterFetch(s.Task.Intent)
	case StepQuery, StepResolve, StepSummarize:
		return StepWrite
	case StepWrite:
		return StepEnd
	}
	return StepEnd
}

// routeIntent picks the branch after parsing: queries go straight to the
// history search, everything else fetches the day's events first.
func routeIntent(intent task.Intent) Step {
	if intent == task.IntentQuery {
		return StepQuery
	}
	return StepFetch
}

// routeAfterFetch picks the branch after fetching: briefings are summarized,
// everything else goes through availability resolution.
func routeAfterFetch(intent task.Intent) Step {
	if intent == task.IntentSummarize {
		return StepSummarize
	}
	return StepResolve
}

// Run executes one pass through the graph for the given request and returns
// the final state. A handler failure aborts the run; partial state is not
// rolled back, which is safe because no step before write has external side
// effects.
func (a *Agent) Run(ctx context.Context, userInput string) (State, error) {
	s := State{
		RunID:     uuid.NewString(),
		UserInput: userInput,
	}
	log := logging.WithRunID(a.logger, s.RunID)
	log.Debug("run started")

	for step := StepParse; step != StepEnd; {
		h, err := a.handlerFor(step)
		if err != nil {
			return s, err
		}

		started := time.Now()
		update, err := h(ctx, &s)
		a.metrics.RecordStep(ctx, string(step), time.Since(started), err)
		if err != nil {
			log.Error("step failed", logging.Step(string(step)), logging.Err(err))
			a.metrics.RecordRun(ctx, s.intent(), err)
			return s, fmt.Errorf("step %s: %w", step, err)
		}

		s.apply(update)
		log.Debug("step completed", logging.Step(string(step)))
		step = a.next(step, &s)
	}

	a.metrics.RecordRun(ctx, s.intent(), nil)
	log.Debug("run finished",
		logging.Intent(s.intent()),
		slog.Bool("needs_booking", s.NeedsBooking))

	return s, nil
}

// intent returns the parsed intent for metrics, or "unknown" before parsing
// succeeded.
func (s *State) intent() string {
	if s.Task == nil {
		return "unknown"
	}
	return string(s.Task.Intent)
}
