package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dayplan/internal/calendar"
)

// searchWindow is how far the history search looks in each direction from
// the current moment.
const searchWindow = 30 * 24 * time.Hour

// historyReport picks the most relevant occurrence from the search results:
// the nearest future one, or failing that the most recent past one. The
// results arrive sorted per account; they are re-sorted here across accounts
// by raw start string. That comparison is lexical, which is only correct
// while every start shares the same ISO-8601 prefix format.
func historyReport(title string, results []calendar.Event, now time.Time) string {
	if len(results) == 0 {
		return fmt.Sprintf("No events found for '%s'.", title)
	}

	sorted := make([]calendar.Event, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	nowStr := now.Format("2006-01-02T15:04:05")
	var future, past []calendar.Event
	for _, e := range sorted {
		if e.Start >= nowStr {
			future = append(future, e)
		} else {
			past = append(past, e)
		}
	}

	if len(future) > 0 {
		next := future[0]
		if t := timeOfDay(next.Start); t != "" {
			return fmt.Sprintf("Scheduled: '%s' on %s at %s (%s).", next.Summary, datePart(next.Start), t, next.Account)
		}
		return fmt.Sprintf("Scheduled: '%s' on %s (%s).", next.Summary, datePart(next.Start), next.Account)
	}

	latest := past[len(past)-1]
	return fmt.Sprintf("Not currently scheduled. Last occurrence: %s (%s).", datePart(latest.Start), latest.Account)
}

// datePart returns the YYYY-MM-DD portion of a raw start string.
func datePart(start string) string {
	if i := strings.Index(start, "T"); i >= 0 {
		return start[:i]
	}
	return start
}

// timeOfDay returns the HH:MM portion of a raw start string, or "" for
// all-day events.
func timeOfDay(start string) string {
	i := strings.Index(start, "T")
	if i < 0 || len(start) < i+6 {
		return ""
	}
	return start[i+1 : i+6]
}
