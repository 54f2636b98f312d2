package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/cmd/cli/commands"
	"github.com/jakechorley/weekday-rota/internal/config"
	"github.com/jakechorley/weekday-rota/pkg/clients/gmailclient"
	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/db"
	"github.com/jakechorley/weekday-rota/pkg/postgres"
	"github.com/jakechorley/weekday-rota/pkg/sqlite"
	"github.com/jakechorley/weekday-rota/pkg/utils"
	"github.com/jakechorley/weekday-rota/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	// A missing .env is fine; values may come from the real environment
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Weekday rota - build shift schedules from form responses",
		Long: `A CLI tool that reads weekly availability from the intake form's responses sheet,
assigns employees to days against per-day staffing targets, and publishes the schedule.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(ctx, cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects schedule_config.<env>.yaml)")

	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ViewScheduleCmd(app))
	rootCmd.AddCommand(commands.MoveShiftCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.ViewTargetsCmd(app))
	rootCmd.AddCommand(commands.SetTargetCmd(app))
	rootCmd.AddCommand(commands.ResetTargetsCmd(app))
	rootCmd.AddCommand(commands.ListResponsesCmd(app))
	rootCmd.AddCommand(commands.ClearResponsesCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.EmailScheduleCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, and database
func initApp(ctx context.Context, cmd *cobra.Command) error {
	var err error
	app.Ctx = ctx
	app.Env = env

	// Load configuration first; it names the log directory
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application",
		zap.String("command", cmd.Name()),
		zap.String("storage", app.Cfg.Storage.Driver))

	if commands.NeedsGoogle(cmd) || app.Cfg.Storage.Driver == config.DriverSheets {
		if err := initGoogleClients(ctx); err != nil {
			return err
		}
	}

	app.Logger.Info("Connecting to database", zap.String("driver", app.Cfg.Storage.Driver))
	app.Database, err = openDatabase(ctx, app.Cfg, app.SheetsClient)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.Logger.Debug("Database initialized successfully")

	return nil
}

// initGoogleClients runs the OAuth flow (or reuses a stored token) and builds the API clients
func initGoogleClients(ctx context.Context) error {
	app.Logger.Info("Loading OAuth client configuration")
	oauthClientCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthClientCfg)
	if err != nil {
		return err
	}

	tokenStore, err := utils.DefaultTokenStore()
	if err != nil {
		return err
	}

	token, err := utils.NewAuthenticator(oauthConfig, tokenStore, env, app.Logger).Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	httpClient := oauthConfig.Client(ctx, token)

	app.Logger.Info("Initializing sheets client")
	app.SheetsClient, err = sheetsclient.NewClient(ctx, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.Logger.Info("Initializing gmail client")
	app.GmailClient, err = gmailclient.NewClient(ctx, httpClient, app.Cfg.GmailUserID, app.Cfg.GmailSender)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}

	return nil
}

// openDatabase connects to the configured storage backend
func openDatabase(ctx context.Context, cfg *config.Config, sheets *sheetsclient.Client) (db.Database, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		database, err := postgres.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return database, nil
	case config.DriverSheets:
		database, err := db.Open(ctx, sheets, cfg.DatabaseSheetID)
		if err != nil {
			return nil, err
		}
		return database, nil
	default:
		database, err := sqlite.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return database, nil
	}
}

func closeApp() {
	if app.Database != nil {
		if err := app.Database.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
