package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edqe14/hefs/pkg/hefs"
)

// NewSubmissionsCommand creates the submissions command group.
func NewSubmissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"submission", "s"},
		Short:   "Inspect submissions",
		Long:    "List the submissions sent to a project",
	}

	cmd.AddCommand(newSubmissionsListCommand())

	return cmd
}

func newSubmissionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List submissions of a project",
		Long:  "List every submission of a project, fetched from the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			submissions, err := client.Projects().FetchSubmissions(cmd.Context(), hefs.ProjectID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to list submissions: %w", err)
			}

			views := make([]SubmissionView, 0, len(submissions))
			for _, submission := range submissions {
				views = append(views, newSubmissionView(submission))
			}

			return renderOutput(cmd.OutOrStdout(), viper.GetString("output"), views, func(table *tablewriter.Table) {
				table.Header("ID", "Type", "Author", "Content")

				for _, view := range views {
					_ = table.Append(view.ID, view.Type, formatCell(view.Author), formatCell(view.Content))
				}
			})
		},
	}
}
