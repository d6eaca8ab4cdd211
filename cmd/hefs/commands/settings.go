package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edqe14/hefs/internal/constants"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"setting"},
		Short:   "Inspect server settings",
		Long:    "Read admin settings such as the whitelist. Requires a session.",
	}

	cmd.AddCommand(newSettingsGetCommand())

	return cmd
}

func newSettingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROPERTY",
		Short: "Get a setting",
		Long:  "Display the value of a server setting (whitelist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("session") == "" {
				return constants.ErrNoSessionConfigured
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			setting, err := client.Admin().Fetch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get setting: %w", err)
			}

			view := SettingView{ID: setting.ID, Values: setting.Strings()}

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), view, func(table *tablewriter.Table) {
				table.Header("#", "Value")

				for i, value := range view.Values {
					_ = table.Append(formatCount(i+1), formatCell(value))
				}
			})
		},
	}
}
