// Package render turns schedules, staffing targets and statistics into text
// tables for terminals, plain-text email and sheet publishing.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

// Mode selects how tables are drawn
type Mode int

const (
	// Styled draws rounded borders and colours for a terminal
	Styled Mode = iota

	// Plain draws ASCII borders with no escape codes (email, logs, pipes)
	Plain
)

const (
	SymbolAssigned  = "✅"
	SymbolAvailable = "❌"

	// Legend explains the grid symbols
	Legend = SymbolAssigned + " - working, " + SymbolAvailable + " - available but not scheduled"
)

var (
	borderColor    = lipgloss.Color("#2a3850")
	headerColor    = lipgloss.Color("#8BC34A")
	warningColor   = lipgloss.Color("#FFC107")
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	headerStyle    = cellStyle.Bold(true).Foreground(headerColor)
	nameStyle      = cellStyle.Bold(true)
	highlightStyle = cellStyle.Foreground(warningColor)
)

// Symbol returns the grid text for a cell: ✅ assigned, ❌ available, blank otherwise
func Symbol(state allocator.CellState) string {
	switch state {
	case allocator.CellAssigned:
		return SymbolAssigned
	case allocator.CellAvailable:
		return SymbolAvailable
	default:
		return ""
	}
}

// GridHeader returns the header row of a schedule grid
func GridHeader(grid *allocator.Grid) []string {
	header := make([]string, 0, len(grid.Days)+1)
	header = append(header, "Employee")
	for _, day := range grid.Days {
		header = append(header, day.Short())
	}
	return header
}

// GridRows returns one text row per employee
func GridRows(grid *allocator.Grid) [][]string {
	rows := make([][]string, 0, len(grid.Rows))
	for _, r := range grid.Rows {
		row := make([]string, 0, len(r.Cells)+1)
		row = append(row, r.Employee)
		for _, cell := range r.Cells {
			row = append(row, Symbol(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

// ScheduleTable draws the employee-by-day grid
func ScheduleTable(grid *allocator.Grid, mode Mode) string {
	return newTable(mode, GridHeader(grid), GridRows(grid), nil)
}

// Caption summarises unfilled shifts, e.g. "⚠ Unfilled shifts: Tue (1), Fri (2)"
func Caption(shortfalls []model.Shortfall) string {
	if len(shortfalls) == 0 {
		return "All shifts filled"
	}
	return "⚠ Unfilled shifts: " + strings.Join(ShortfallNotes(shortfalls), ", ")
}

// ShortfallNotes formats each shortfall as "Tue (1)"
func ShortfallNotes(shortfalls []model.Shortfall) []string {
	notes := make([]string, 0, len(shortfalls))
	for _, s := range shortfalls {
		notes = append(notes, fmt.Sprintf("%s (%d)", s.Day.Short(), s.Missing))
	}
	return notes
}

// StatsTable draws per-employee statistics; rows with a positive deficit are highlighted
func StatsTable(stats []allocator.EmployeeStats, mode Mode) string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Employee,
			strconv.Itoa(s.Requested),
			strconv.Itoa(s.Assigned),
			strconv.Itoa(s.Deficit),
		})
	}

	highlight := func(row int) bool { return stats[row].Deficit > 0 }
	return newTable(mode, []string{"Employee", "Requested", "Assigned", "Deficit"}, rows, highlight)
}

// TargetsTable draws the staffing target, one row per day
func TargetsTable(target model.StaffingTarget, mode Mode) string {
	rows := make([][]string, 0, len(target))
	for _, dt := range target {
		rows = append(rows, []string{string(dt.Day), strconv.Itoa(dt.Required)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(target.Total())})

	return newTable(mode, []string{"Day", "Required"}, rows, nil)
}

func newTable(mode Mode, header []string, rows [][]string, highlight func(row int) bool) string {
	t := table.New().
		Headers(header...).
		Rows(rows...)

	if mode == Plain {
		return t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
			String()
	}

	return t.Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight != nil && row >= 0 && highlight(row):
				return highlightStyle
			case col == 0:
				return nameStyle
			default:
				return cellStyle
			}
		}).
		String()
}
