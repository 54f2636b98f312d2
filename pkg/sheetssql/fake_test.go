package sheetssql

import (
	"context"
	"fmt"
	"strings"
)

// memSheets is an in-memory spreadsheet keyed by tab title.
// Ranges are reduced to their tab name; "!A1:ZZ2" reads return the first two rows.
type memSheets struct {
	tabs        map[string][][]interface{}
	order       []string
	appendCalls int
}

func newMemSheets() *memSheets {
	return &memSheets{tabs: map[string][][]interface{}{}}
}

func (m *memSheets) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	tab, rng, _ := strings.Cut(sheetRange, "!")
	rows, ok := m.tabs[tab]
	if !ok {
		return nil, fmt.Errorf("unknown tab %s", tab)
	}
	if rng == "A1:ZZ2" && len(rows) > 2 {
		rows = rows[:2]
	}
	return rows, nil
}

func (m *memSheets) AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	if _, ok := m.tabs[sheetRange]; !ok {
		return fmt.Errorf("unknown tab %s", sheetRange)
	}
	m.appendCalls++
	for _, row := range values {
		// Sheets hands back formatted strings
		stored := make([]interface{}, len(row))
		for i, cell := range row {
			stored[i] = fmt.Sprint(cell)
		}
		m.tabs[sheetRange] = append(m.tabs[sheetRange], stored)
	}
	return nil
}

func (m *memSheets) CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error) {
	if _, ok := m.tabs[sheetTitle]; ok {
		return 0, fmt.Errorf("tab %s already exists", sheetTitle)
	}
	m.tabs[sheetTitle] = [][]interface{}{}
	m.order = append(m.order, sheetTitle)
	return int64(len(m.order)), nil
}

func (m *memSheets) ListSheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	return append([]string{}, m.order...), nil
}
