package commands

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/server"
	"github.com/jakechorley/weekday-rota/pkg/utils/logging"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve the JSON HTTP API",
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			debug, _ := cmd.Flags().GetBool("debug")
			if addr == "" {
				addr = app.Cfg.Server.Addr
			}

			dayOrder, err := allocator.ParseDayOrder(app.Cfg.DayOrder)
			if err != nil {
				return err
			}

			logger, err := logging.NewServerLogger(debug)
			if err != nil {
				return fmt.Errorf("failed to initialize server logger: %w", err)
			}
			defer logger.Sync()

			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := &server.Server{
				Store:     app.Database,
				Responses: app.SheetsClient,
				Source:    app.responsesSource(),
				DayOrder:  dayOrder,
				Overrides: app.Cfg.TargetOverrides,
				Logger:    logger,
			}
			return srv.Run(app.Ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
	cmd.Flags().Bool("debug", false, "Debug logging and gin debug mode")
	return cmd
}
