package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/internal/config"
	"github.com/jakechorley/weekday-rota/pkg/clients/gmailclient"
	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// annotationGoogle marks commands that talk to Google Sheets or Gmail
const annotationGoogle = "google"

// AppContext holds the application dependencies shared across all commands.
// SheetsClient and GmailClient are nil unless the command needs Google access.
type AppContext struct {
	Cfg          *config.Config
	Env          string
	SheetsClient *sheetsclient.Client
	GmailClient  *gmailclient.Client
	Database     db.Database
	Logger       *zap.Logger
	Ctx          context.Context
}

// NeedsGoogle reports whether cmd requires authenticated Google clients
func NeedsGoogle(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationGoogle] == "true"
}

func googleCommand() map[string]string {
	return map[string]string{annotationGoogle: "true"}
}

// responsesSource returns the configured responses tab
func (app *AppContext) responsesSource() sheetsclient.ResponsesSource {
	return sheetsclient.ResponsesSource{
		SpreadsheetID: app.Cfg.ResponsesSheetID,
		Tab:           app.Cfg.ResponsesTab,
		NameColumn:    app.Cfg.NameColumn,
		DaysColumn:    app.Cfg.DaysColumn,
	}
}
