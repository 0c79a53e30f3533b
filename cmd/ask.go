package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var (
		dryRun bool
		noBook bool
	)

	cmd := &cobra.Command{
		Use:   "ask <request>",
		Short: "Answer a single request and exit",
		Long: `Run one request through the assistant and print the answer. For a booking
request the confirmation form still runs unless --no-book is given.

Examples:
  dayplan ask "when is my next dentist appointment?"
  dayplan ask --no-book "book a haircut next saturday morning"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := buildApp(ctx, dryRun)
			if err != nil {
				return err
			}
			defer app.shutdown(ctx)

			return app.session.RunOnce(ctx, strings.Join(args, " "), !noBook)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use an in-memory calendar instead of Google Calendar")
	cmd.Flags().BoolVar(&noBook, "no-book", false, "Print the answer only, never open the booking form")
	return cmd
}
