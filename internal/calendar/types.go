package calendar

import (
	"context"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// FixedOffset is the single UTC offset all day-scoped reads use.
const FixedOffset = "-08:00"

// InsertTimeZone is the timezone label attached to booked events.
const InsertTimeZone = "America/Los_Angeles"

// InsertLayout is the start-time format accepted by Store.Insert.
const InsertLayout = "2006-01-02 15:04"

// Event is a single calendar entry as returned by a store read.
type Event struct {
	// Summary is the event title.
	Summary string
	// Start is the raw ISO-8601 start: "2025-03-01T10:00:00-08:00" for a
	// timed event, "2025-03-01" for an all-day event.
	Start string
	// End is the raw ISO-8601 end, empty when the store reported none.
	End string
	// Account names the account the event came from.
	Account string
}

// Store is the calendar read/write contract the workflow runs against.
type Store interface {
	// List returns the events starting on the given YYYY-MM-DD date for one
	// account, ordered by start time. The day boundaries are taken at
	// FixedOffset.
	List(ctx context.Context, account, date string) ([]Event, error)

	// Search returns events matching the query text for one account within
	// [timeMin, timeMax], ordered by start time.
	Search(ctx context.Context, account, query string, timeMin, timeMax time.Time) ([]Event, error)

	// Insert books a one-hour event starting at the given
	// "YYYY-MM-DD HH:MM" time in the account's primary calendar and returns
	// a link to it.
	Insert(ctx context.Context, account, title, start string) (string, error)
}

// fromAPIEvent converts a Google Calendar event into the internal model,
// preferring the timed form of start/end over the all-day date.
func fromAPIEvent(e *calendar.Event, account string) Event {
	ev := Event{
		Summary: e.Summary,
		Account: account,
	}
	if e.Start != nil {
		if e.Start.DateTime != "" {
			ev.Start = e.Start.DateTime
		} else {
			ev.Start = e.Start.Date
		}
	}
	if e.End != nil {
		if e.End.DateTime != "" {
			ev.End = e.End.DateTime
		} else {
			ev.End = e.End.Date
		}
	}
	return ev
}
