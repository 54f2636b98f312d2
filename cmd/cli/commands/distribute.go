package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekday-rota/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "publishSchedule",
		Short:       "Write the latest schedule to its own tab of the schedule sheet",
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := services.PublishSchedule(app.Ctx, app.Database, app.SheetsClient, app.Logger, app.Cfg.ScheduleSheetID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Schedule published to tab %q\n\n", title)
			return nil
		},
	}
}

// EmailScheduleCmd creates the emailSchedule command
func EmailScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "emailSchedule [recipient...]",
		Short:       "Email the latest schedule (defaults to the configured recipients)",
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients := args
			if len(recipients) == 0 {
				recipients = app.Cfg.Recipients
			}

			sent, failed, err := services.EmailSchedule(app.Ctx, app.Database, app.GmailClient, app.Logger, recipients)
			if len(sent) > 0 {
				fmt.Printf("\n✓ Schedule emailed to %d recipients\n", len(sent))
				for _, to := range sent {
					fmt.Printf("  ✓ %s\n", to)
				}
			}
			if len(failed) > 0 {
				fmt.Printf("\n⚠️  Failed to send %d emails:\n", len(failed))
				for _, fe := range failed {
					fmt.Printf("  ✗ %s: %s\n", fe.Email, fe.Error)
				}
			}
			fmt.Println()

			return err
		},
	}
}
