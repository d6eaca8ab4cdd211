package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Inspect projects",
		Long:    "List and inspect fan projects",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	var guildID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "List every project, optionally only those of one guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			projects, err := client.Projects().FetchAll(cmd.Context(), fetchAllOptions()...)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			views := make([]ProjectView, 0, len(projects))

			for _, project := range projects {
				if guildID != "" && project.GuildID != guildID {
					continue
				}

				views = append(views, newProjectView(project))
			}

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), views, func(table *tablewriter.Table) {
				table.Header("ID", "Title", "Status", "Guild", "Date")

				for _, view := range views {
					guild := view.GuildName
					if guild == "" {
						guild = view.Guild
					}

					_ = table.Append(view.ID, formatCell(view.Title), view.Status, formatCell(guild), formatCell(view.Date))
				}
			})
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "only list projects of this guild")

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Get project details",
		Long:  "Display detailed information about a specific project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			project, err := client.Projects().Fetch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			view := newProjectView(project)

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), view, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", view.ID)
				_ = table.Append("Title", formatCell(view.Title))
				_ = table.Append("Status", view.Status)
				_ = table.Append("Guild", formatCell(view.Guild))
				_ = table.Append("Guild Name", formatCell(view.GuildName))
				_ = table.Append("URL", formatCell(view.URL))
				_ = table.Append("Summary", formatCell(view.ShortDescription))
				_ = table.Append("Date", formatCell(view.Date))
				_ = table.Append("Media", formatCount(len(view.Media)))
				_ = table.Append("Links", formatCell(strings.Join(view.Links, ", ")))
				_ = table.Append("Flags", formatCell(strings.Join(view.Flags, ", ")))
			})
		},
	}
}
