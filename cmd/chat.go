package cmd

import (
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive scheduling session",
		Long: `Read requests from the terminal in a loop. Each request is classified and
answered; booking requests end with a short confirmation form before the
event is written.

With --dry-run the session runs against an empty in-memory calendar instead
of the Google Calendar API, so no tokens are required and nothing real is
booked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := buildApp(ctx, dryRun)
			if err != nil {
				return err
			}
			defer app.shutdown(ctx)

			return app.session.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use an in-memory calendar instead of Google Calendar")
	return cmd
}
