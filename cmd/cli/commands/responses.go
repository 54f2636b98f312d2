package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekday-rota/pkg/core/services"
)

// ListResponsesCmd creates the listResponses command
func ListResponsesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "listResponses",
		Short:       "List the employees who answered the availability form",
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := services.ListResponses(app.Ctx, app.SheetsClient, app.Logger, app.responsesSource())
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d responses:\n\n", len(employees))
			for _, e := range employees {
				days := make([]string, 0, len(e.Availability))
				for _, d := range e.Availability.Days() {
					days = append(days, d.Short())
				}
				fmt.Printf("- %s: %s\n", e.Name, strings.Join(days, ", "))
			}
			fmt.Println()

			return nil
		},
	}
}

// ClearResponsesCmd creates the clearResponses command
func ClearResponsesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "clearResponses",
		Short:       "Delete every form response, keeping the header row",
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("this deletes every response in %q; rerun with --yes to confirm", app.Cfg.ResponsesTab)
			}

			cleared, err := services.ClearResponses(app.Ctx, app.SheetsClient, app.Logger, app.responsesSource())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Cleared %d responses\n\n", cleared)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm deleting the responses")
	return cmd
}
