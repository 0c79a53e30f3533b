package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the dayplan application
var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "A scheduling assistant for your work and personal calendars",
	Long: `dayplan turns free-text requests into calendar actions. It classifies a
request as a booking, a question about an existing event, or a request for a
daily briefing, then answers it against your work and personal Google
calendars.

Examples:
  dayplan ask "when is my next dentist appointment?"
  dayplan chat
  dayplan auth`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dayplan version %s\n" .Version}}`)

	// If no subcommand is provided, start the chat session by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
