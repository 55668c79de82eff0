package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/galeproject/gale/internal/config"
	"github.com/galeproject/gale/internal/google"
)

func newAuthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to your Google account",
		Long: `Authorize gale to read your Gmail drafts, compose and send email, and
read your basic profile.

The command prints a consent URL. Open it in a browser, approve the
requested access and paste the authorization code back into the
terminal. The resulting token is cached locally and refreshed
automatically; re-run this command if access is ever revoked.

Requires an OAuth client: set google.client_id and google.client_secret
in the config file, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the
environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(),
		"Path to the YAML config file. Can also use GALE_CONFIG env var.")

	return cmd
}

func runAuth(cmd *cobra.Command, configPath string) error {
	gc, err := config.LoadGoogleCredentials(configPath)
	if err != nil {
		return err
	}
	creds := google.ClientCredentials{
		ClientID:     gc.ClientID,
		ClientSecret: gc.ClientSecret,
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Open the following URL in a browser and approve access:")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "  "+google.AuthURL(creds))
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), "Enter the authorization code: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		return fmt.Errorf("no authorization code entered")
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return fmt.Errorf("no authorization code entered")
	}

	if err := google.Exchange(cmd.Context(), creds, code); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Authorized. Token cached at %s\n", google.TokenFile())
	return nil
}
