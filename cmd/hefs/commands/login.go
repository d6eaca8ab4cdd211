package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/edqe14/hefs/internal/constants"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Long: `Store the next-auth session token used to authenticate requests.

Copy the value of the next-auth.session-token cookie from a signed-in browser.
When --token is not given the token is read from the terminal without echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Session token: ")

				fd := int(os.Stdin.Fd()) //nolint:gosec // stdin descriptor fits in int

				token, err := term.ReadPassword(fd)
				if err != nil {
					return fmt.Errorf("failed to read session token: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())

				session = string(token)
			}

			session = strings.TrimSpace(session)
			if session == "" {
				return constants.ErrEmptySession
			}

			config, err := loadConfigFile()
			if err != nil {
				return err
			}

			setConfigValue(config, "session", session)

			path, err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Session saved to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&session, "token", "", "session token (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		Long:  "Remove the session token from the CLI config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("session") == "" {
				return constants.ErrNoSessionConfigured
			}

			config, err := loadConfigFile()
			if err != nil {
				return err
			}

			setConfigValue(config, "session", "")

			path, err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Session removed from %s\n", path)

			return nil
		},
	}
}
