package sheetsclient

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// PublishedSchedule is a schedule laid out as sheet rows
type PublishedSchedule struct {
	Title  string
	Header []string
	Rows   [][]string
	// Notes are written below the table, one per row (e.g. unfilled shifts)
	Notes []string
}

// WeekTabTitle names a schedule tab after its week, e.g. "Week of Mon Oct 19 2026"
func WeekTabTitle(weekStart time.Time) string {
	return "Week of " + weekStart.Format("Mon Jan 02 2006")
}

// PublishSchedule writes the schedule to its own tab.
// A missing tab is created; an existing one is cleared and rewritten.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) error {
	titles, err := c.ListSheetTitles(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	if slices.Contains(titles, schedule.Title) {
		if err := c.ClearValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:ZZ", schedule.Title)); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, schedule.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1", schedule.Title), scheduleRows(schedule)); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}

// scheduleRows builds the header, the data rows, a blank separator and the notes
func scheduleRows(schedule *PublishedSchedule) [][]interface{} {
	rows := make([][]interface{}, 0, len(schedule.Rows)+len(schedule.Notes)+2)
	rows = append(rows, toRow(schedule.Header))

	for _, row := range schedule.Rows {
		padded := make([]string, len(schedule.Header))
		copy(padded, row)
		rows = append(rows, toRow(padded))
	}

	if len(schedule.Notes) > 0 {
		rows = append(rows, []interface{}{})
		for _, note := range schedule.Notes {
			rows = append(rows, []interface{}{note})
		}
	}

	return rows
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
