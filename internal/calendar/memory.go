package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store. It backs dry runs (chat --dry-run) and
// the test suite, and mirrors the Google store's contract: day-scoped lists
// at FixedOffset, text search within a window, one-hour inserts.
type MemoryStore struct {
	events map[string][]Event
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]Event)}
}

// Seed adds events to an account without going through Insert. Start/End
// must already be in the store's raw ISO form.
func (s *MemoryStore) Seed(account string, events ...Event) {
	for _, e := range events {
		e.Account = account
		s.events[account] = append(s.events[account], e)
	}
}

// List returns the account's events starting on the given date, ordered by
// start string.
func (s *MemoryStore) List(ctx context.Context, account, date string) ([]Event, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var out []Event
	for _, e := range s.events[account] {
		if datePart(e.Start) == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// Search returns the account's events whose summary contains the query text,
// starting within [timeMin, timeMax], ordered by start string.
func (s *MemoryStore) Search(ctx context.Context, account, query string, timeMin, timeMax time.Time) ([]Event, error) {
	needle := strings.ToLower(query)

	var out []Event
	for _, e := range s.events[account] {
		if !strings.Contains(strings.ToLower(e.Summary), needle) {
			continue
		}
		start, err := parseStart(e.Start)
		if err != nil {
			continue
		}
		if start.Before(timeMin) || start.After(timeMax) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// Insert books a one-hour event and returns a synthetic link.
func (s *MemoryStore) Insert(ctx context.Context, account, title, start string) (string, error) {
	startTime, err := time.Parse(InsertLayout, start)
	if err != nil {
		return "", fmt.Errorf("invalid start time %q: %w", start, err)
	}
	endTime := startTime.Add(time.Hour)

	s.events[account] = append(s.events[account], Event{
		Summary: title,
		Start:   startTime.Format("2006-01-02T15:04:05") + FixedOffset,
		End:     endTime.Format("2006-01-02T15:04:05") + FixedOffset,
		Account: account,
	})

	return "memory://event/" + uuid.NewString(), nil
}

// datePart returns the YYYY-MM-DD portion of a raw start string.
func datePart(start string) string {
	if i := strings.Index(start, "T"); i >= 0 {
		return start[:i]
	}
	return start
}

// parseStart interprets a raw start string for window checks. Offsets are
// honored when present; naive datetimes and bare dates are taken as-is.
func parseStart(start string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, start); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable start %q", start)
}

var _ Store = (*MemoryStore)(nil)
