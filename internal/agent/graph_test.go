package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplan/internal/calendar"
	"dayplan/internal/parser"
	"dayplan/internal/task"
)

// spyStore records which store operations ran and serves canned results. A
// non-nil listErr/searchErr keyed by account makes that account fail.
type spyStore struct {
	listCalls   []string
	searchCalls []string
	insertCalls []string

	listEvents   map[string][]calendar.Event
	searchEvents map[string][]calendar.Event
	listErr      map[string]error
	searchErr    map[string]error

	searchMin time.Time
	searchMax time.Time
}

func (s *spyStore) List(_ context.Context, account, date string) ([]calendar.Event, error) {
	s.listCalls = append(s.listCalls, account)
	if err := s.listErr[account]; err != nil {
		return nil, err
	}
	return s.listEvents[account], nil
}

func (s *spyStore) Search(_ context.Context, account, query string, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	s.searchCalls = append(s.searchCalls, account)
	s.searchMin, s.searchMax = timeMin, timeMax
	if err := s.searchErr[account]; err != nil {
		return nil, err
	}
	return s.searchEvents[account], nil
}

func (s *spyStore) Insert(_ context.Context, account, title, start string) (string, error) {
	s.insertCalls = append(s.insertCalls, account)
	return "spy://event", nil
}

func fixedParser(tk task.Task) parser.Parser {
	return parser.Func(func(context.Context, string, time.Time) (task.Task, error) {
		return tk, nil
	})
}

func validTask(intent task.Intent) task.Task {
	return task.Task{
		Title:    "Dentist",
		Date:     "2025-03-01",
		Category: task.CategoryFixed,
		Account:  task.AccountPersonal,
		Intent:   intent,
	}
}

func pinnedNow() time.Time {
	return time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC)
}

func TestRunCreateIntentRoutesThroughResolve(t *testing.T) {
	store := &spyStore{
		listEvents: map[string][]calendar.Event{
			"work": {{Summary: "Standup", Start: "2025-03-01T10:00:00-08:00", End: "2025-03-01T11:00:00-08:00", Account: "work"}},
		},
	}
	a := New(fixedParser(validTask(task.IntentCreate)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "book a dentist appointment saturday")
	require.NoError(t, err)

	assert.Equal(t, []string{"work", "personal"}, store.listCalls)
	assert.Empty(t, store.searchCalls)
	assert.Empty(t, store.insertCalls)
	assert.Contains(t, state.FinalDecision, "Schedule for 2025-03-01:")
	assert.Contains(t, state.FinalDecision, "BEST TIMES TO SCHEDULE:")
	assert.True(t, state.NeedsBooking)
}

func TestRunQueryIntentSkipsFetch(t *testing.T) {
	store := &spyStore{
		searchEvents: map[string][]calendar.Event{
			"personal": {{Summary: "Dentist", Start: "2025-03-03T14:30:00-08:00", Account: "personal"}},
		},
	}
	a := New(fixedParser(validTask(task.IntentQuery)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "when is my dentist appointment?")
	require.NoError(t, err)

	assert.Empty(t, store.listCalls)
	assert.Equal(t, []string{"work", "personal"}, store.searchCalls)
	assert.Equal(t, "Scheduled: 'Dentist' on 2025-03-03 at 14:30 (personal).", state.FinalDecision)
	assert.False(t, state.NeedsBooking)
}

func TestRunQuerySearchWindow(t *testing.T) {
	store := &spyStore{}
	a := New(fixedParser(validTask(task.IntentQuery)), store, Config{Now: pinnedNow})

	_, err := a.Run(context.Background(), "when did I last get a haircut?")
	require.NoError(t, err)

	now := pinnedNow().UTC()
	assert.True(t, store.searchMin.Equal(now.Add(-searchWindow)))
	assert.True(t, store.searchMax.Equal(now.Add(searchWindow)))
}

func TestRunSummarizeIntentRoutesToAgenda(t *testing.T) {
	store := &spyStore{
		listEvents: map[string][]calendar.Event{
			"work":     {{Summary: "Standup", Start: "2025-03-01T09:30:00-08:00", Account: "work"}},
			"personal": {{Summary: "Yoga", Start: "2025-03-01T18:00:00-08:00", Account: "personal"}},
		},
	}
	a := New(fixedParser(validTask(task.IntentSummarize)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "what does my saturday look like?")
	require.NoError(t, err)

	assert.Contains(t, state.FinalDecision, "Agenda for 2025-03-01:")
	assert.Contains(t, state.FinalDecision, "WORK ACCOUNT:")
	assert.Contains(t, state.FinalDecision, "PERSONAL ACCOUNT:")
	assert.NotContains(t, state.FinalDecision, "BEST TIMES TO SCHEDULE")
	assert.False(t, state.NeedsBooking)
}

func TestRunSummarizeEmptyDay(t *testing.T) {
	store := &spyStore{}
	a := New(fixedParser(validTask(task.IntentSummarize)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "what's on saturday?")
	require.NoError(t, err)
	assert.Equal(t, "Your calendar is clear for 2025-03-01.", state.FinalDecision)
}

func TestRunParserFailureAbortsRun(t *testing.T) {
	store := &spyStore{}
	failing := parser.Func(func(context.Context, string, time.Time) (task.Task, error) {
		return task.Task{}, errors.New("model unavailable")
	})
	a := New(failing, store, Config{Now: pinnedNow})

	_, err := a.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step parse")
	assert.Empty(t, store.listCalls)
	assert.Empty(t, store.searchCalls)
}

func TestRunInvalidParsedTaskAbortsRun(t *testing.T) {
	bad := validTask(task.IntentCreate)
	bad.Date = "saturday"
	a := New(fixedParser(bad), &spyStore{}, Config{Now: pinnedNow})

	_, err := a.Run(context.Background(), "book something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task")
}

func TestRunToleratesFailingAccountOnFetch(t *testing.T) {
	store := &spyStore{
		listErr: map[string]error{"work": errors.New("token expired")},
		listEvents: map[string][]calendar.Event{
			"personal": {{Summary: "Yoga", Start: "2025-03-01T18:00:00-08:00", Account: "personal"}},
		},
	}
	a := New(fixedParser(validTask(task.IntentSummarize)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "what's on saturday?")
	require.NoError(t, err)
	assert.Contains(t, state.FinalDecision, "Yoga")
	assert.NotContains(t, state.FinalDecision, "WORK ACCOUNT:")
}

func TestRunAllAccountsFailingLooksLikeEmptyDay(t *testing.T) {
	store := &spyStore{
		listErr: map[string]error{
			"work":     errors.New("token expired"),
			"personal": errors.New("token expired"),
		},
	}
	a := New(fixedParser(validTask(task.IntentSummarize)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "what's on saturday?")
	require.NoError(t, err)
	assert.Equal(t, "Your calendar is clear for 2025-03-01.", state.FinalDecision)
}

func TestRunToleratesFailingAccountOnSearch(t *testing.T) {
	store := &spyStore{
		searchErr: map[string]error{"work": errors.New("rate limited")},
		searchEvents: map[string][]calendar.Event{
			"personal": {{Summary: "Dentist", Start: "2025-03-03T14:30:00-08:00", Account: "personal"}},
		},
	}
	a := New(fixedParser(validTask(task.IntentQuery)), store, Config{Now: pinnedNow})

	state, err := a.Run(context.Background(), "when is my dentist appointment?")
	require.NoError(t, err)
	assert.Contains(t, state.FinalDecision, "Scheduled: 'Dentist'")
}

func TestRunNeverInsertsEvents(t *testing.T) {
	for _, intent := range []task.Intent{task.IntentCreate, task.IntentQuery, task.IntentSummarize} {
		store := &spyStore{}
		a := New(fixedParser(validTask(intent)), store, Config{Now: pinnedNow})

		_, err := a.Run(context.Background(), "anything")
		require.NoError(t, err)
		assert.Empty(t, store.insertCalls, "intent %s", intent)
	}
}

func TestRunPopulatesRunID(t *testing.T) {
	a := New(fixedParser(validTask(task.IntentSummarize)), &spyStore{}, Config{Now: pinnedNow})

	first, err := a.Run(context.Background(), "what's on?")
	require.NoError(t, err)
	second, err := a.Run(context.Background(), "what's on?")
	require.NoError(t, err)

	assert.NotEmpty(t, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestStateApplyMergesOnlySetFields(t *testing.T) {
	tk := validTask(task.IntentCreate)
	events := []calendar.Event{{Summary: "Standup"}}
	s := State{UserInput: "book it"}

	s.apply(Update{Task: &tk})
	s.apply(Update{Events: &events})

	decision := "done"
	s.apply(Update{FinalDecision: &decision})
	s.apply(Update{})

	require.NotNil(t, s.Task)
	assert.Equal(t, "Dentist", s.Task.Title)
	assert.Equal(t, events, s.Events)
	assert.Equal(t, "done", s.FinalDecision)
	assert.Equal(t, "book it", s.UserInput)
}

func TestRouteIntent(t *testing.T) {
	assert.Equal(t, StepQuery, routeIntent(task.IntentQuery))
	assert.Equal(t, StepFetch, routeIntent(task.IntentCreate))
	assert.Equal(t, StepFetch, routeIntent(task.IntentSummarize))
}

func TestRouteAfterFetch(t *testing.T) {
	assert.Equal(t, StepSummarize, routeAfterFetch(task.IntentSummarize))
	assert.Equal(t, StepResolve, routeAfterFetch(task.IntentCreate))
	assert.Equal(t, StepResolve, routeAfterFetch(task.IntentQuery))
}
