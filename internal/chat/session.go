package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"dayplan/internal/agent"
	"dayplan/internal/calendar"
	"dayplan/internal/instrumentation"
	"dayplan/internal/logging"
	"dayplan/internal/task"
)

// defaultStartTime pre-fills the booking form when the parsed task carries
// no start time.
const defaultStartTime = "10:00"

// Runner executes one workflow pass for a request.
type Runner interface {
	Run(ctx context.Context, userInput string) (agent.State, error)
}

// Config carries the session dependencies.
type Config struct {
	Runner   Runner
	Store    calendar.Store
	Prompter Prompter
	// Accounts lists the bookable accounts in selection order.
	Accounts []string
	// Out receives the rendered decisions. Defaults to stdout.
	Out     io.Writer
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Session is one interactive conversation.
type Session struct {
	runner   Runner
	store    calendar.Store
	prompter Prompter
	accounts []string
	out      io.Writer
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	decisionColor *color.Color
	successColor  *color.Color
	errorColor    *color.Color
}

// New creates a chat session.
func New(cfg Config) *Session {
	s := &Session{
		runner:   cfg.Runner,
		store:    cfg.Store,
		prompter: cfg.Prompter,
		accounts: cfg.Accounts,
		out:      cfg.Out,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,

		decisionColor: color.New(color.FgCyan),
		successColor:  color.New(color.FgGreen),
		errorColor:    color.New(color.FgRed),
	}
	if len(s.accounts) == 0 {
		for _, acc := range task.Accounts() {
			s.accounts = append(s.accounts, string(acc))
		}
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.prompter == nil {
		s.prompter = NewTerminalPrompter()
	}
	return s
}

// Run loops reading requests until the user types exit or interrupts the
// prompt. Errors from a single request are printed and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type a request, or 'exit' to quit.")

	for {
		input, err := s.prompter.Input("You", "", nil)
		if err != nil {
			if IsInterrupt(err) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := s.handle(ctx, input); err != nil {
			s.errorColor.Fprintln(s.out, err.Error())
		}
	}
}

// RunOnce handles a single request and returns. When allowBooking is false
// the booking form is skipped even for a create request.
func (s *Session) RunOnce(ctx context.Context, input string, allowBooking bool) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty request")
	}
	if !allowBooking {
		state, err := s.runner.Run(ctx, input)
		if err != nil {
			return err
		}
		s.decisionColor.Fprintln(s.out, state.FinalDecision)
		return nil
	}
	return s.handle(ctx, input)
}

// handle runs one request through the workflow and, for bookings, the
// confirmation form.
func (s *Session) handle(ctx context.Context, input string) error {
	state, err := s.runner.Run(ctx, input)
	if err != nil {
		return err
	}

	s.decisionColor.Fprintln(s.out, state.FinalDecision)

	if !state.NeedsBooking {
		return nil
	}
	return s.book(ctx, &state)
}

// book walks the confirmation form and inserts the event. A successful
// insert clears NeedsBooking so the same state cannot book twice; a failed
// insert leaves it set.
func (s *Session) book(ctx context.Context, state *agent.State) error {
	tk := state.Task
	if tk == nil {
		return fmt.Errorf("booking requested without a parsed task")
	}

	start := tk.StartTime
	if start == "" {
		start = defaultStartTime
	}
	start, err := s.prompter.Input("Start time (HH:MM)", start, ValidateClock)
	if err != nil {
		if IsInterrupt(err) {
			return nil
		}
		return fmt.Errorf("failed to read start time: %w", err)
	}
	start = strings.TrimSpace(start)

	cursor := 0
	for i, acc := range s.accounts {
		if acc == string(tk.Account) {
			cursor = i
		}
	}
	account, err := s.prompter.Select("Account", s.accounts, cursor)
	if err != nil {
		if IsInterrupt(err) {
			return nil
		}
		return fmt.Errorf("failed to pick an account: %w", err)
	}

	ok, err := s.prompter.Confirm(fmt.Sprintf("Book '%s' on %s at %s (%s)", tk.Title, tk.Date, start, account))
	if err != nil {
		if IsInterrupt(err) {
			return nil
		}
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	if !ok {
		state.NeedsBooking = false
		fmt.Fprintln(s.out, "Booking skipped.")
		return nil
	}

	link, err := s.store.Insert(ctx, account, tk.Title, tk.Date+" "+start)
	s.metrics.RecordBooking(ctx, account, err)
	if err != nil {
		s.logger.Error("booking failed",
			logging.Account(account),
			logging.Err(err))
		return fmt.Errorf("failed to book '%s': %w", tk.Title, err)
	}

	state.NeedsBooking = false
	s.logger.Info("event booked", logging.Account(account))
	s.successColor.Fprintf(s.out, "Booked '%s' on %s at %s (%s): %s\n", tk.Title, tk.Date, start, account, link)
	return nil
}
