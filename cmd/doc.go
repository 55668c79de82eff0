// Package cmd implements the command-line interface for gale.
//
// This package provides the following commands:
//   - chat: Start the interactive assistant session
//   - auth: Authorize access to the user's Google account
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
