package chat

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/agent"
	"dayplan/internal/calendar"
	"dayplan/internal/parser"
	"dayplan/internal/task"
)

// scriptedPrompter answers prompts from canned values.
type scriptedPrompter struct {
	inputs   []string
	choices  []string
	confirms []bool

	inputLabels  []string
	inputDefault []string
	selectCursor int
}

func (p *scriptedPrompter) Input(label, defaultValue string, validate func(string) error) (string, error) {
	p.inputLabels = append(p.inputLabels, label)
	p.inputDefault = append(p.inputDefault, defaultValue)
	if len(p.inputs) == 0 {
		return "", errors.New("no scripted input")
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (p *scriptedPrompter) Select(label string, items []string, cursor int) (string, error) {
	p.selectCursor = cursor
	if len(p.choices) == 0 {
		return "", errors.New("no scripted choice")
	}
	v := p.choices[0]
	p.choices = p.choices[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(label string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, errors.New("no scripted confirm")
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

// fixedRunner returns the same state for every request.
type fixedRunner struct {
	state agent.State
	err   error
	calls int
}

func (r *fixedRunner) Run(ctx context.Context, userInput string) (agent.State, error) {
	r.calls++
	return r.state, r.err
}

// recordingStore counts inserts and optionally fails them.
type recordingStore struct {
	calendar.Store
	insertErr  error
	inserted   []string
	insertedAt []string
}

func (s *recordingStore) Insert(ctx context.Context, account, title, start string) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	s.inserted = append(s.inserted, account)
	s.insertedAt = append(s.insertedAt, start)
	return "https://calendar.example/event/1", nil
}

func bookingState() agent.State {
	return agent.State{
		Task: &task.Task{
			Title:     "Dentist",
			Date:      "2025-03-01",
			StartTime: "14:00",
			Category:  task.CategoryFixed,
			Account:   task.AccountPersonal,
			Intent:    task.IntentCreate,
		},
		FinalDecision: "Schedule for 2025-03-01:",
		NeedsBooking:  true,
	}
}

func TestRunOnceConfirmedBooking(t *testing.T) {
	store := &recordingStore{}
	prompter := &scriptedPrompter{
		inputs:   []string{"15:30"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	var out bytes.Buffer
	s := New(Config{
		Runner:   &fixedRunner{state: bookingState()},
		Store:    store,
		Prompter: prompter,
		Out:      &out,
	})

	err := s.RunOnce(context.Background(), "book a dentist appointment", true)
	require.NoError(t, err)

	require.Equal(t, []string{"personal"}, store.inserted)
	assert.Equal(t, []string{"2025-03-01 15:30"}, store.insertedAt)
	assert.Contains(t, out.String(), "Booked 'Dentist' on 2025-03-01 at 15:30 (personal)")
	assert.Contains(t, out.String(), "https://calendar.example/event/1")
}

func TestRunOnceBookingDefaults(t *testing.T) {
	store := &recordingStore{}
	prompter := &scriptedPrompter{
		inputs:   []string{"14:00"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	s := New(Config{
		Runner:   &fixedRunner{state: bookingState()},
		Store:    store,
		Prompter: prompter,
		Out:      &bytes.Buffer{},
	})

	err := s.RunOnce(context.Background(), "book it", true)
	require.NoError(t, err)

	// The form pre-fills the parsed start time and starts the account cursor
	// on the parsed account.
	assert.Equal(t, []string{"14:00"}, prompter.inputDefault)
	assert.Equal(t, 1, prompter.selectCursor)
}

func TestRunOnceBookingDefaultTimeWhenTaskHasNone(t *testing.T) {
	state := bookingState()
	state.Task.StartTime = ""
	prompter := &scriptedPrompter{
		inputs:   []string{"10:00"},
		choices:  []string{"work"},
		confirms: []bool{true},
	}
	s := New(Config{
		Runner:   &fixedRunner{state: state},
		Store:    &recordingStore{},
		Prompter: prompter,
		Out:      &bytes.Buffer{},
	})

	require.NoError(t, s.RunOnce(context.Background(), "book it", true))
	assert.Equal(t, []string{"10:00"}, prompter.inputDefault)
}

func TestRunOnceDeclinedBookingDoesNotInsert(t *testing.T) {
	store := &recordingStore{}
	prompter := &scriptedPrompter{
		inputs:   []string{"14:00"},
		choices:  []string{"personal"},
		confirms: []bool{false},
	}
	var out bytes.Buffer
	s := New(Config{
		Runner:   &fixedRunner{state: bookingState()},
		Store:    store,
		Prompter: prompter,
		Out:      &out,
	})

	err := s.RunOnce(context.Background(), "book it", true)
	require.NoError(t, err)
	assert.Empty(t, store.inserted)
	assert.Contains(t, out.String(), "Booking skipped.")
}

func TestRunOnceBookingDisabled(t *testing.T) {
	store := &recordingStore{}
	prompter := &scriptedPrompter{}
	var out bytes.Buffer
	s := New(Config{
		Runner:   &fixedRunner{state: bookingState()},
		Store:    store,
		Prompter: prompter,
		Out:      &out,
	})

	err := s.RunOnce(context.Background(), "book it", false)
	require.NoError(t, err)

	// The decision still prints but no prompt runs and nothing is inserted.
	assert.Contains(t, out.String(), "Schedule for 2025-03-01:")
	assert.Empty(t, prompter.inputLabels)
	assert.Empty(t, store.inserted)
}

func TestRunOnceNoBookingForNonCreate(t *testing.T) {
	state := agent.State{FinalDecision: "No events found for 'Dentist'."}
	prompter := &scriptedPrompter{}
	var out bytes.Buffer
	s := New(Config{
		Runner:   &fixedRunner{state: state},
		Store:    &recordingStore{},
		Prompter: prompter,
		Out:      &out,
	})

	err := s.RunOnce(context.Background(), "when is my dentist appointment?", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No events found for 'Dentist'.")
	assert.Empty(t, prompter.inputLabels)
}

func TestRunOnceInsertFailureKeepsNeedsBooking(t *testing.T) {
	store := &recordingStore{insertErr: errors.New("api unavailable")}
	prompter := &scriptedPrompter{
		inputs:   []string{"14:00"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	runner := &fixedRunner{state: bookingState()}
	s := New(Config{
		Runner:   runner,
		Store:    store,
		Prompter: prompter,
		Out:      &bytes.Buffer{},
	})

	err := s.RunOnce(context.Background(), "book it", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to book 'Dentist'")
}

func TestBookClearsNeedsBookingOnSuccess(t *testing.T) {
	state := bookingState()
	prompter := &scriptedPrompter{
		inputs:   []string{"14:00"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	s := New(Config{
		Store:    &recordingStore{},
		Prompter: prompter,
		Out:      &bytes.Buffer{},
	})

	require.NoError(t, s.book(context.Background(), &state))
	assert.False(t, state.NeedsBooking)
}

func TestBookKeepsNeedsBookingOnFailure(t *testing.T) {
	state := bookingState()
	prompter := &scriptedPrompter{
		inputs:   []string{"14:00"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	s := New(Config{
		Store:    &recordingStore{insertErr: errors.New("api unavailable")},
		Prompter: prompter,
		Out:      &bytes.Buffer{},
	})

	require.Error(t, s.book(context.Background(), &state))
	assert.True(t, state.NeedsBooking)
}

func TestRunOnceEmptyInput(t *testing.T) {
	s := New(Config{Runner: &fixedRunner{}, Out: &bytes.Buffer{}})
	assert.Error(t, s.RunOnce(context.Background(), "   ", true))
}

func TestRunOnceRunnerError(t *testing.T) {
	s := New(Config{
		Runner: &fixedRunner{err: errors.New("step parse: model unavailable")},
		Out:    &bytes.Buffer{},
	})
	err := s.RunOnce(context.Background(), "anything", true)
	assert.Error(t, err)
}

func TestRunLoopHandlesRequestsUntilExit(t *testing.T) {
	runner := &fixedRunner{state: agent.State{FinalDecision: "Your calendar is clear for 2025-03-01."}}
	prompter := &scriptedPrompter{
		inputs: []string{"what's on saturday?", "", "exit"},
	}
	var out bytes.Buffer
	s := New(Config{
		Runner:   runner,
		Store:    &recordingStore{},
		Prompter: prompter,
		Out:      &out,
	})

	err := s.Run(context.Background())
	require.NoError(t, err)

	// One real request ran; the blank line was skipped and exit ended the loop.
	assert.Equal(t, 1, runner.calls)
	assert.Contains(t, out.String(), "Your calendar is clear for 2025-03-01.")
}

func TestRunLoopReportsRequestErrorAndContinues(t *testing.T) {
	runner := &fixedRunner{err: errors.New("step parse: model unavailable")}
	prompter := &scriptedPrompter{
		inputs: []string{"anything", "quit"},
	}
	var out bytes.Buffer
	s := New(Config{
		Runner:   runner,
		Store:    &recordingStore{},
		Prompter: prompter,
		Out:      &out,
	})

	err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "model unavailable")
}

func TestValidateClock(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"09:00", false},
		{"23:59", false},
		{"00:00", false},
		{" 10:30 ", false},
		{"24:00", true},
		{"09:60", true},
		{"9:00", true},
		{"0900", true},
		{"ten", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
		} else {
			assert.NoError(t, err, "input %q", tt.in)
		}
	}
}

func TestSessionEndToEndThroughAgent(t *testing.T) {
	// Wire the real workflow against the in-memory store to cover the full
	// parse-resolve-book path.
	store := calendar.NewMemoryStore()
	p := parser.Func(func(ctx context.Context, text string, ref time.Time) (task.Task, error) {
		return task.Task{
			Title:     "Dentist",
			Date:      "2025-03-01",
			StartTime: "10:00",
			Category:  task.CategoryFixed,
			Account:   task.AccountPersonal,
			Intent:    task.IntentCreate,
		}, nil
	})
	a := agent.New(p, store, agent.Config{
		Now: func() time.Time { return time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC) },
	})

	prompter := &scriptedPrompter{
		inputs:   []string{"10:00"},
		choices:  []string{"personal"},
		confirms: []bool{true},
	}
	var out bytes.Buffer
	s := New(Config{
		Runner:   a,
		Store:    store,
		Prompter: prompter,
		Out:      &out,
	})

	require.NoError(t, s.RunOnce(context.Background(), "book a dentist appointment saturday morning", true))

	events, err := store.List(context.Background(), "personal", "2025-03-01")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Summary)
	assert.Equal(t, "2025-03-01T10:00:00-08:00", events[0].Start)
	assert.Equal(t, "2025-03-01T11:00:00-08:00", events[0].End)
}
