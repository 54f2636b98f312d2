package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/weekday-rota/pkg/core/services"
	"github.com/jakechorley/weekday-rota/pkg/render"
)

// ViewTargetsCmd creates the viewTargets command
func ViewTargetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewTargets",
		Short: "Show the required headcount for each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := services.GetTargets(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(render.TargetsTable(target, renderMode(false)))
			fmt.Println()
			return nil
		},
	}
}

// SetTargetCmd creates the setTarget command
func SetTargetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setTarget <day> <count>",
		Short: "Set the required headcount for one day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}
			required, err := strconv.Atoi(args[1])
			if err != nil || required < 0 {
				return fmt.Errorf("count must be a non-negative integer, got: %s", args[1])
			}

			target, err := services.SetTarget(app.Ctx, app.Database, app.Logger, day, required)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s now needs %d\n\n", day, required)
			fmt.Println(render.TargetsTable(target, renderMode(false)))
			return nil
		},
	}
}

// ResetTargetsCmd creates the resetTargets command
func ResetTargetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resetTargets",
		Short: "Set every day's required headcount back to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := services.ResetTargets(app.Ctx, app.Database, app.Logger); err != nil {
				return err
			}
			fmt.Printf("\n✓ Staffing targets reset\n\n")
			return nil
		},
	}
}
