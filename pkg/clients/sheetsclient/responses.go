package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// ErrDuplicateResponse is returned when two form responses carry the same name
var ErrDuplicateResponse = errors.New("duplicate response")

// ResponsesSource identifies the intake form's responses tab and its columns
type ResponsesSource struct {
	SpreadsheetID string
	Tab           string
	NameColumn    string
	DaysColumn    string
}

// ListResponses reads the responses tab and converts each answered row into an Employee
func (c *Client) ListResponses(ctx context.Context, src ResponsesSource) ([]model.Employee, error) {
	values, err := c.GetValues(ctx, src.SpreadsheetID, src.Tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get response data: %w", err)
	}

	// A tab that was never answered has no rows at all
	if len(values) == 0 {
		return []model.Employee{}, nil
	}

	employees, err := parseResponses(values, src.NameColumn, src.DaysColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse responses: %w", err)
	}

	return employees, nil
}

// ClearResponses deletes every answered row, keeping the header.
// Returns the number of rows that held data.
func (c *Client) ClearResponses(ctx context.Context, src ResponsesSource) (int, error) {
	values, err := c.GetValues(ctx, src.SpreadsheetID, src.Tab)
	if err != nil {
		return 0, fmt.Errorf("failed to get response data: %w", err)
	}

	if len(values) <= 1 {
		return 0, nil
	}

	if err := c.ClearValues(ctx, src.SpreadsheetID, fmt.Sprintf("%s!A2:ZZ%d", src.Tab, len(values))); err != nil {
		return 0, fmt.Errorf("failed to clear responses: %w", err)
	}

	return len(values) - 1, nil
}

// parseResponses converts raw spreadsheet data into employees.
// Rows with every cell blank are skipped; the days cell may be empty.
func parseResponses(raw [][]interface{}, nameColumn, daysColumn string) ([]model.Employee, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	nameIdx := findColumnIndex(headerRow, nameColumn)
	if nameIdx == -1 {
		return nil, fmt.Errorf("missing required column in header: %s", nameColumn)
	}
	daysIdx := findColumnIndex(headerRow, daysColumn)
	if daysIdx == -1 {
		return nil, fmt.Errorf("missing required column in header: %s", daysColumn)
	}

	employees := make([]model.Employee, 0, len(raw)-1)
	seen := make(map[string]int)

	for i := 1; i < len(raw); i++ {
		row := raw[i]
		// Spreadsheet rows are 1-indexed and the header is row 1
		rowNumber := i + 1

		if isBlankRow(row) {
			continue
		}

		name := cellString(row, nameIdx)
		if name == "" {
			return nil, fmt.Errorf("row %d: missing %s", rowNumber, nameColumn)
		}
		if first, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q in rows %d and %d", ErrDuplicateResponse, name, first, rowNumber)
		}
		seen[name] = rowNumber

		availability, err := model.ParseWeekdayList(cellString(row, daysIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", rowNumber, name, err)
		}

		employees = append(employees, model.Employee{
			Name:         name,
			Availability: availability,
		})
	}

	return employees, nil
}

func cellString(row []interface{}, index int) string {
	if index >= len(row) {
		return ""
	}
	if str, ok := row[index].(string); ok {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(fmt.Sprint(row[index]))
}

func isBlankRow(row []interface{}) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i := range header {
		if cellString(header, i) == columnName {
			return i
		}
	}
	return -1
}
