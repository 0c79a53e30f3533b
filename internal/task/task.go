package task

import (
	"fmt"
	"time"
)

// Intent classifies the purpose of a user request.
type Intent string

const (
	// IntentCreate books or schedules something new.
	IntentCreate Intent = "create"
	// IntentQuery asks about a past or future occurrence of an event.
	IntentQuery Intent = "query"
	// IntentSummarize asks for a daily agenda or briefing.
	IntentSummarize Intent = "summarize"
)

// ParseIntent converts a string into an Intent.
// Unknown values are an error so that routing stays exhaustive.
func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentCreate, IntentQuery, IntentSummarize:
		return Intent(s), nil
	}
	return "", fmt.Errorf("unknown intent %q", s)
}

// Category distinguishes tasks with a hard time from flexible ones.
type Category string

const (
	// CategoryFixed is for meetings, appointments and anything with a
	// specific time or other people involved.
	CategoryFixed Category = "fixed"
	// CategoryFloating is for chores and errands that can happen anytime.
	CategoryFloating Category = "floating"
)

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFixed, CategoryFloating:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Account identifies one of the two calendar identities.
type Account string

const (
	AccountWork     Account = "work"
	AccountPersonal Account = "personal"
)

// ParseAccount converts a string into an Account.
func ParseAccount(s string) (Account, error) {
	switch Account(s) {
	case AccountWork, AccountPersonal:
		return Account(s), nil
	}
	return "", fmt.Errorf("unknown account %q", s)
}

// Accounts returns all known accounts in their fixed reporting order.
func Accounts() []Account {
	return []Account{AccountWork, AccountPersonal}
}

// Task is the structured form of a user request. It is produced once per
// request by the parser and never mutated afterwards.
type Task struct {
	// Title names the task or event.
	Title string `json:"title"`
	// Date is the target date in YYYY-MM-DD form.
	Date string `json:"date"`
	// StartTime is an optional HH:MM (24h) start time.
	StartTime string `json:"start_time,omitempty"`
	// EndTime is an optional HH:MM (24h) end time.
	EndTime string `json:"end_time,omitempty"`
	// Category is fixed or floating.
	Category Category `json:"category"`
	// Account is the calendar account the task belongs to.
	Account Account `json:"account_id"`
	// Intent is the classified purpose of the request.
	Intent Intent `json:"intent"`
}

// Validate checks that the task's fields are well formed. It is applied to
// parser output before the task enters the workflow.
func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task has no title")
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return fmt.Errorf("invalid task date %q: %w", t.Date, err)
	}
	if t.StartTime != "" {
		if _, err := time.Parse("15:04", t.StartTime); err != nil {
			return fmt.Errorf("invalid start time %q: %w", t.StartTime, err)
		}
	}
	if t.EndTime != "" {
		if _, err := time.Parse("15:04", t.EndTime); err != nil {
			return fmt.Errorf("invalid end time %q: %w", t.EndTime, err)
		}
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if _, err := ParseAccount(string(t.Account)); err != nil {
		return err
	}
	if _, err := ParseIntent(string(t.Intent)); err != nil {
		return err
	}
	return nil
}
