package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayplan/internal/chat"
	"dayplan/internal/config"
	"dayplan/internal/google"
	"dayplan/internal/logging"
)

func newAuthCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize calendar access for the configured accounts",
		Long: `Walk through the OAuth flow once per configured account. For each account
a consent URL is printed; open it in a browser while signed in to that
account, approve access, and paste the resulting code back here.

Accounts that already have a cached token are skipped unless --force is
given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireCalendar(); err != nil {
				return err
			}

			logger := logging.New(cfg.LogLevel)
			conf := google.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)
			prompter := chat.NewTerminalPrompter()

			for _, account := range cfg.Accounts {
				if !force && google.HasTokenForAccount(account) {
					fmt.Printf("Account %q already authorized, skipping.\n", account)
					continue
				}

				fmt.Printf("\nAuthorizing account %q.\n", account)
				fmt.Printf("Open this URL in a browser signed in to that account:\n\n  %s\n\n", google.AuthURL(conf))

				code, err := prompter.Input("Authorization code", "", nil)
				if err != nil {
					if chat.IsInterrupt(err) {
						return fmt.Errorf("authorization cancelled")
					}
					return fmt.Errorf("failed to read authorization code: %w", err)
				}

				if err := google.SaveTokenForAccount(ctx, conf, account, code); err != nil {
					return fmt.Errorf("failed to authorize account %q: %w", account, err)
				}

				logger.Info("account authorized", logging.Account(account))
				fmt.Printf("Account %q authorized.\n", account)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-authorize accounts that already have a token")
	return cmd
}
