// Package cmd implements the command-line interface for dayplan.
//
// This package provides the following commands:
//   - chat: Interactive scheduling assistant (the default command)
//   - ask: Answer a single request and exit
//   - auth: Authorize calendar access for the configured accounts
//   - version: Display version information
package cmd
