package services

import (
	"context"
	"errors"

	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/db"
)

// ErrNoSchedule is returned when no schedule has been generated yet
var ErrNoSchedule = errors.New("no schedule has been generated yet")

// ResponsesClient reads and clears the intake form's responses tab
type ResponsesClient interface {
	ListResponses(ctx context.Context, src sheetsclient.ResponsesSource) ([]model.Employee, error)
	ClearResponses(ctx context.Context, src sheetsclient.ResponsesSource) (int, error)
}

// SchedulePublisher writes a schedule to a spreadsheet tab
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error
}

// GmailClient sends plain-text emails
type GmailClient interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Store combines the persistence operations the scheduling services need
type Store interface {
	db.TargetStore
	db.ScheduleStore
}
