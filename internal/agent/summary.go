package agent

import (
	"fmt"
	"strings"

	"dayplan/internal/calendar"
)

// dailyAgenda renders the day's events grouped per account, in the fixed
// account order and otherwise in the order the fetch step produced them.
func dailyAgenda(date string, events []calendar.Event, accounts []string) string {
	if len(events) == 0 {
		return fmt.Sprintf("Your calendar is clear for %s.", date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Agenda for %s:\n", date)
	b.WriteString(strings.Repeat("-", 30) + "\n")

	for _, account := range accounts {
		var header bool
		for _, e := range events {
			if e.Account != account {
				continue
			}
			if !header {
				fmt.Fprintf(&b, "\n%s ACCOUNT:\n", strings.ToUpper(account))
				header = true
			}
			t := timeOfDay(e.Start)
			if t == "" {
				t = "All Day"
			}
			fmt.Fprintf(&b, " - %s: %s\n", t, e.Summary)
		}
	}

	return b.String()
}
