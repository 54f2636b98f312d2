package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/services"
	"github.com/jakechorley/weekday-rota/pkg/render"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "generateSchedule",
		Short:       "Build a schedule from the form responses and staffing targets",
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderFlag, _ := cmd.Flags().GetString("order")
			seed, _ := cmd.Flags().GetInt64("seed")
			weekFlag, _ := cmd.Flags().GetString("week")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			plain, _ := cmd.Flags().GetBool("plain")

			if orderFlag == "" {
				orderFlag = app.Cfg.DayOrder
			}
			dayOrder, err := allocator.ParseDayOrder(orderFlag)
			if err != nil {
				return err
			}
			if dayOrder == allocator.DayOrderShuffle && !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			week, err := parseWeek(weekFlag, time.Now())
			if err != nil {
				return err
			}

			app.Logger.Info("generateSchedule command",
				zap.String("order", string(dayOrder)),
				zap.Int64("seed", seed),
				zap.String("week", weekFlag),
				zap.Bool("dry_run", dryRun))

			result, err := services.GenerateSchedule(app.Ctx, app.SheetsClient, app.Database, app.Logger, services.GenerateParams{
				Source:    app.responsesSource(),
				Options:   allocator.Options{DayOrder: dayOrder, Seed: seed},
				WeekStart: week,
				Overrides: app.Cfg.TargetOverrides,
				DryRun:    dryRun,
			})
			if err != nil {
				var invalid *allocator.InvalidInputError
				if errors.As(err, &invalid) {
					return fmt.Errorf("cannot build a schedule from these inputs (%s): %s", invalid.Field, invalid.Reason)
				}
				return err
			}

			for _, o := range result.AppliedOverrides {
				fmt.Printf("Override applied: %s = %d (%s)\n", o.Day, o.Required, o.RRule)
			}

			printSchedule(os.Stdout, result.Schedule, renderMode(plain))

			if dayOrder == allocator.DayOrderShuffle {
				fmt.Printf("Seed: %d (pass --seed to reproduce)\n", seed)
			}
			if result.Saved {
				fmt.Printf("✓ Schedule saved\n\n")
			} else {
				fmt.Printf("Dry run: schedule not saved\n\n")
			}

			return nil
		},
	}

	cmd.Flags().String("order", "", "Day processing order: fixed, scarcity or shuffle (defaults to config)")
	cmd.Flags().Int64("seed", 0, "Seed for the shuffle order")
	cmd.Flags().String("week", "", "Week to apply target overrides for (YYYY-MM-DD, this or next)")
	cmd.Flags().Bool("dry-run", false, "Compute without saving the schedule")
	cmd.Flags().Bool("plain", false, "Plain ASCII output")

	return cmd
}

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewSchedule",
		Short: "Show the latest saved schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")

			schedule, err := services.LatestSchedule(app.Ctx, app.Database, app.Logger)
			if errors.Is(err, services.ErrNoSchedule) {
				fmt.Println("No schedule yet - run generateSchedule first.")
				return nil
			}
			if err != nil {
				return err
			}

			printSchedule(os.Stdout, schedule, renderMode(plain))
			return nil
		},
	}

	cmd.Flags().Bool("plain", false, "Plain ASCII output")
	return cmd
}

// MoveShiftCmd creates the moveShift command
func MoveShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "moveShift <employee> <from_day> <to_day>",
		Short: "Move an employee's shift to another day of the latest schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDay(args[1])
			if err != nil {
				return err
			}
			to, err := parseDay(args[2])
			if err != nil {
				return err
			}

			schedule, err := services.MoveShift(app.Ctx, app.Database, app.Logger, args[0], from, to)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Moved %s from %s to %s\n", args[0], from, to)
			printSchedule(os.Stdout, schedule, renderMode(false))
			return nil
		},
	}
}

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show requested vs assigned shifts per employee for the latest schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")

			stats, err := services.ScheduleStats(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(render.StatsTable(stats, renderMode(plain)))
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Bool("plain", false, "Plain ASCII output")
	return cmd
}
