package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/weekday-rota/pkg/db"
	"github.com/jakechorley/weekday-rota/pkg/render"
)

// PublishSchedule writes the latest schedule to its own tab of the schedule spreadsheet.
// Returns the tab title.
func PublishSchedule(ctx context.Context, store db.ScheduleStore, publisher SchedulePublisher, logger *zap.Logger, spreadsheetID string) (string, error) {
	if spreadsheetID == "" {
		return "", fmt.Errorf("no schedule spreadsheet configured (scheduleSheetID)")
	}

	schedule, err := LatestSchedule(ctx, store, logger)
	if err != nil {
		return "", err
	}

	published := publishedSchedule(schedule)

	logger.Debug("Publishing schedule",
		zap.String("run_id", schedule.RunID),
		zap.String("tab", published.Title),
		zap.Int("rows", len(published.Rows)))

	if err := publisher.PublishSchedule(ctx, spreadsheetID, published); err != nil {
		return "", fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("run_id", schedule.RunID), zap.String("tab", published.Title))
	return published.Title, nil
}

func publishedSchedule(schedule *StoredSchedule) *sheetsclient.PublishedSchedule {
	grid := schedule.Grid()

	notes := []string{render.Legend}
	if len(schedule.Outcome.Shortfalls) > 0 {
		notes = append(notes, render.Caption(schedule.Outcome.Shortfalls))
	}

	return &sheetsclient.PublishedSchedule{
		Title:  scheduleTitle(schedule),
		Header: render.GridHeader(grid),
		Rows:   render.GridRows(grid),
		Notes:  notes,
	}
}

// scheduleTitle names a schedule after its week, or after its creation date when it has none
func scheduleTitle(schedule *StoredSchedule) string {
	if !schedule.WeekStart.IsZero() {
		return sheetsclient.WeekTabTitle(schedule.WeekStart)
	}
	return "Schedule " + schedule.CreatedAt.Format("Mon Jan 02 2006 15:04")
}
