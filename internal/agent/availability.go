package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dayplan/internal/calendar"
)

// Working window bounds: free time is computed against 09:00-19:00 on the
// target date.
const (
	workDayStart = "09:00"
	workDayEnd   = "19:00"
)

// clockFormat renders interval bounds on a 12-hour clock.
const clockFormat = "03:04 PM"

// BusyInterval is one occupied block of the day. Start never exceeds End.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// parseEventTime turns a raw event time into a naive local datetime. The
// fixed UTC-8 suffix and a trailing Z are stripped rather than converted;
// the whole day is treated in that one offset.
func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSuffix(raw, "Z")
	if i := strings.Index(raw, calendar.FixedOffset); i >= 0 {
		raw = raw[:i]
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable event time %q", raw)
}

// busyIntervals extracts the occupied blocks from the day's events, sorted
// ascending by start and then end. Events with an unparseable start or end
// are dropped; a missing end collapses the event to a zero-width interval.
// Overlapping intervals are kept as-is, each occupied block is reported
// independently.
func busyIntervals(events []calendar.Event) []BusyInterval {
	var busy []BusyInterval
	for _, e := range events {
		start, err := parseEventTime(e.Start)
		if err != nil {
			continue
		}
		end := start
		if e.End != "" {
			end, err = parseEventTime(e.End)
			if err != nil {
				continue
			}
		}
		busy = append(busy, BusyInterval{Start: start, End: end})
	}

	sort.SliceStable(busy, func(i, j int) bool {
		if !busy[i].Start.Equal(busy[j].Start) {
			return busy[i].Start.Before(busy[j].Start)
		}
		return busy[i].End.Before(busy[j].End)
	})

	return busy
}

// freeBlocks computes the complement of the occupied intervals within the
// working window. The cursor only moves forward, so overlapping intervals
// and intervals outside the window cannot push it backwards.
func freeBlocks(busy []BusyInterval, windowStart, windowEnd time.Time) []BusyInterval {
	var free []BusyInterval
	cursor := windowStart
	for _, b := range busy {
		if b.Start.After(cursor) {
			free = append(free, BusyInterval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(windowEnd) {
		free = append(free, BusyInterval{Start: cursor, End: windowEnd})
	}
	return free
}

// availabilityReport renders the day's schedule: the occupied blocks first,
// then the gaps left inside the working window.
func availabilityReport(date string, events []calendar.Event) (string, error) {
	windowStart, err := time.Parse("2006-01-02 15:04", date+" "+workDayStart)
	if err != nil {
		return "", fmt.Errorf("invalid target date %q: %w", date, err)
	}
	windowEnd, _ := time.Parse("2006-01-02 15:04", date+" "+workDayEnd)

	busy := busyIntervals(events)

	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for %s:\n", date)

	if len(busy) > 0 {
		b.WriteString("\nOCCUPIED BLOCKS:\n")
		for _, blk := range busy {
			fmt.Fprintf(&b, " - %s - %s\n", blk.Start.Format(clockFormat), blk.End.Format(clockFormat))
		}
	} else {
		b.WriteString("\nYour day is completely wide open!")
	}

	free := freeBlocks(busy, windowStart, windowEnd)
	if len(free) > 0 {
		b.WriteString("\nBEST TIMES TO SCHEDULE:\n")
		lines := make([]string, len(free))
		for i, blk := range free {
			lines[i] = fmt.Sprintf(" - %s - %s", blk.Start.Format(clockFormat), blk.End.Format(clockFormat))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return b.String(), nil
}
