package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edqe14/hefs/pkg/hefs"
)

// NewGuildsCommand creates the guilds command group.
func NewGuildsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guilds",
		Aliases: []string{"guild", "g"},
		Short:   "Inspect guilds",
		Long:    "List and inspect the guilds known to the API",
	}

	cmd.AddCommand(newGuildsListCommand())
	cmd.AddCommand(newGuildsGetCommand())

	return cmd
}

func newGuildsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List guilds",
		Long:  "List every guild with its invite link and project count",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			guilds, err := client.Guilds().FetchAll(cmd.Context(), fetchAllOptions()...)
			if err != nil {
				return fmt.Errorf("failed to list guilds: %w", err)
			}

			views := make([]GuildView, 0, len(guilds))
			for _, guild := range guilds {
				views = append(views, newGuildView(guild))
			}

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), views, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Invite", "Debut", "Projects")

				for _, view := range views {
					_ = table.Append(view.ID, formatCell(view.Name), formatCell(view.Invite), formatCell(view.Debut), formatCount(view.Projects))
				}
			})
		},
	}
}

func newGuildsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GUILD_ID",
		Short: "Get guild details",
		Long:  "Display detailed information about a specific guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			guild, err := client.Guilds().Fetch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get guild: %w", err)
			}

			view := newGuildView(guild)

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), view, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", view.ID)
				_ = table.Append("Name", formatCell(view.Name))
				_ = table.Append("Description", formatCell(view.Description))
				_ = table.Append("Image", formatCell(view.Image))
				_ = table.Append("Invite", formatCell(view.Invite))
				_ = table.Append("Debut", formatCell(view.Debut))
				_ = table.Append("Color", formatCell(view.Color))
				_ = table.Append("Projects", formatCount(view.Projects))
			})
		},
	}
}

// fetchAllOptions reads the cache snapshot when the client hydrated on
// startup and lists from the API otherwise.
func fetchAllOptions() []hefs.FetchOption {
	if hydrated() {
		return nil
	}

	return []hefs.FetchOption{hefs.WithForce()}
}
